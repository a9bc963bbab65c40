package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ytfetch/internal/config"
	"ytfetch/internal/fetch"
	"ytfetch/internal/history"
	"ytfetch/internal/logging"
	"ytfetch/internal/services/ytdlp"
)

type fakeEngine struct {
	downloadErr error
	calls       int
}

func (f *fakeEngine) Download(ctx context.Context, req ytdlp.Request, progress func(string)) error {
	f.calls++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(req.OutputPath, []byte("video"), 0o644)
}

func (f *fakeEngine) ProbeBrowserCookies(ctx context.Context, browser string) error {
	return errors.New("unavailable")
}

func (f *fakeEngine) ExportBrowserCookies(ctx context.Context, browser, jarPath string) error {
	return nil
}

func newTestServer(t *testing.T, engine *fakeEngine) (*httptest.Server, *history.Store, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DownloadDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Cookies.Dir = t.TempDir()

	fetcher, err := fetch.New(&cfg, engine, fetch.WithIdentities([]string{"ua-test"}))
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}
	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	d, err := New(&cfg, fetcher, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	server := httptest.NewServer(d.server.server.Handler)
	t.Cleanup(server.Close)
	return server, store, &cfg
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t, &fakeEngine{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected payload status: %q", payload.Status)
	}
}

func TestDownloadAndServeFile(t *testing.T) {
	server, store, _ := newTestServer(t, &fakeEngine{})

	body, _ := json.Marshal(map[string]string{"url": "https://x/watch?v=abc123"})
	resp, err := http.Post(server.URL+"/api/youtube/download", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST download: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var result fetch.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.VideoID != "abc123" || result.DownloadURL != "/api/youtube/downloads/abc123" {
		t.Fatalf("unexpected result: %+v", result)
	}

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Status != history.StatusCompleted {
		t.Fatalf("expected one completed record, got %+v", records)
	}

	fileResp, err := http.Get(server.URL + result.DownloadURL)
	if err != nil {
		t.Fatalf("GET file: %v", err)
	}
	defer fileResp.Body.Close()
	if fileResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected file status: %d", fileResp.StatusCode)
	}

	missingResp, err := http.Get(server.URL + "/api/youtube/downloads/nothere")
	if err != nil {
		t.Fatalf("GET missing file: %v", err)
	}
	defer missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing download, got %d", missingResp.StatusCode)
	}
}

func TestDownloadFailureReturns400AndRecordsHistory(t *testing.T) {
	engine := &fakeEngine{downloadErr: errors.New("ERROR: Video unavailable")}
	server, store, _ := newTestServer(t, engine)

	body, _ := json.Marshal(map[string]string{"url": "https://x/watch?v=abc123"})
	resp, err := http.Post(server.URL+"/api/youtube/download", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST download: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error == "" {
		t.Fatal("expected diagnostic text in error payload")
	}

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Status != history.StatusFailed {
		t.Fatalf("expected one failed record, got %+v", records)
	}
}

func TestDownloadRejectsMissingURL(t *testing.T) {
	server, _, _ := newTestServer(t, &fakeEngine{})

	resp, err := http.Post(server.URL+"/api/youtube/download", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("POST download: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestServeFileRejectsTraversal(t *testing.T) {
	server, _, _ := newTestServer(t, &fakeEngine{})

	resp, err := http.Get(server.URL + "/api/youtube/downloads/..%2F..%2Fetc")
	if err != nil {
		t.Fatalf("GET traversal: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Fatal("traversal paths must not be served")
	}
}

func TestWeatherEndpointShape(t *testing.T) {
	server, _, _ := newTestServer(t, &fakeEngine{})

	resp, err := http.Get(server.URL + "/api/weather")
	if err != nil {
		t.Fatalf("GET /api/weather: %v", err)
	}
	defer resp.Body.Close()
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"temperature", "condition", "feels_like", "humidity", "timestamp"} {
		if payload[key] == "" {
			t.Fatalf("missing %q in weather payload: %v", key, payload)
		}
	}
}

func TestHistoryEndpoint(t *testing.T) {
	server, store, _ := newTestServer(t, &fakeEngine{})

	if _, err := store.Record(context.Background(), history.Record{
		VideoID:   "abc123",
		SourceURL: "https://x/watch?v=abc123",
		Status:    history.StatusCompleted,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/history?limit=5")
	if err != nil {
		t.Fatalf("GET /api/history: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		Downloads []history.Record `json:"downloads"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Downloads) != 1 || payload.Downloads[0].VideoID != "abc123" {
		t.Fatalf("unexpected history payload: %+v", payload)
	}

	bad, err := http.Get(server.URL + "/api/history?limit=-2")
	if err != nil {
		t.Fatalf("GET bad limit: %v", err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", bad.StatusCode)
	}
}
