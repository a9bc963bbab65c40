package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ytfetch/internal/fetch"
	"ytfetch/internal/history"
	"ytfetch/internal/logging"

	"ytfetch/internal/config"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/weather", srv.handleWeather)
	mux.HandleFunc("/api/history", srv.handleHistory)
	mux.HandleFunc("/api/youtube/download", srv.handleDownload)
	mux.HandleFunc(fetch.DownloadURLPrefix, srv.handleServeFile)

	srv.server = &http.Server{
		Handler:           requestIDMiddleware(srv.log(), mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Downloads run to terminal state inside the handler, which can take
		// minutes under adversarial blocking. No write timeout here.
		IdleTimeout: 60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"dependencies": s.daemon.Dependencies(),
	})
}

type downloadRequest struct {
	URL         string `json:"url"`
	CookiesPath string `json:"cookies_path,omitempty"`
}

func (s *apiServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.daemon.fetcher.Fetch(r.Context(), req.URL, req.CookiesPath)
	if err != nil {
		s.recordFailure(r.Context(), req.URL, err)
		// All fetch failures carry a human-readable diagnostic; the client
		// sees a 400 with that text.
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordSuccess(r.Context(), req.URL, result)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleServeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videoID := strings.TrimPrefix(r.URL.Path, fetch.DownloadURLPrefix)
	if videoID == "" || strings.ContainsAny(videoID, "/\\") || strings.Contains(videoID, "..") {
		s.writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}
	path := filepath.Join(s.daemon.cfg.Paths.DownloadDir, videoID, videoID+".mp4")
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "no download for "+videoID)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+videoID+`.mp4"`)
	http.ServeFile(w, r, path)
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	records, err := s.daemon.store.Recent(r.Context(), limit)
	if err != nil {
		s.log().Error("history query failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"downloads": records})
}

// handleWeather is the demo endpoint kept from the original backend: it
// fabricates a plausible weather reading.
func (s *apiServer) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	conditions := []string{"Sunny", "Cloudy", "Rainy", "Windy"}
	temperature := 15 + rand.Intn(16)
	feelsLike := temperature - 3 + rand.Intn(7)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"temperature": fmt.Sprintf("%d°C", temperature),
		"condition":   conditions[rand.Intn(len(conditions))],
		"feels_like":  fmt.Sprintf("%d°C", feelsLike),
		"humidity":    fmt.Sprintf("%d%%", 40+rand.Intn(41)),
		"timestamp":   time.Now().Format("15:04"),
	})
}

func (s *apiServer) recordSuccess(ctx context.Context, url string, result *fetch.Result) {
	_, err := s.daemon.store.Record(ctx, history.Record{
		VideoID:   result.VideoID,
		SourceURL: url,
		Status:    history.StatusCompleted,
		Strategy:  result.Strategy,
		Attempts:  result.Attempts,
		FilePath:  result.Path,
	})
	if err != nil {
		s.log().Error("failed to record download", logging.Error(err))
	}
}

func (s *apiServer) recordFailure(ctx context.Context, url string, fetchErr error) {
	rec := history.Record{
		SourceURL: url,
		Status:    history.StatusFailed,
		Message:   fetchErr.Error(),
	}
	var typed *fetch.Error
	if errors.As(fetchErr, &typed) {
		rec.Attempts = typed.Attempts
	}
	if id, err := fetch.VideoID(url); err == nil {
		rec.VideoID = id
	} else {
		rec.VideoID = "unknown"
	}
	if _, err := s.daemon.store.Record(ctx, rec); err != nil {
		s.log().Error("failed to record failure", logging.Error(err))
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String("component", "api-server"))
	}
	return logging.NewNop()
}
