package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"ytfetch/internal/config"
	"ytfetch/internal/cookies"
	"ytfetch/internal/logging"
	"ytfetch/internal/services/ytdlp"
)

const (
	youtubeReferer = "https://www.youtube.com/"
	youtubeOrigin  = "https://www.youtube.com"

	// DownloadURLPrefix is the API path under which finished files are served.
	DownloadURLPrefix = "/api/youtube/downloads/"
)

// Result describes a completed download.
type Result struct {
	VideoID     string `json:"video_id"`
	Path        string `json:"video_path"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`

	// Strategy and Attempts feed history records and logs; they are not part
	// of the API payload.
	Strategy string `json:"-"`
	Attempts int    `json:"-"`
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClassifier replaces the bot-challenge classifier.
func WithClassifier(classifier *Classifier) Option {
	return func(f *Fetcher) {
		if classifier != nil {
			f.classifier = classifier
		}
	}
}

// WithIdentities replaces the client identity rotation (primarily for tests).
func WithIdentities(identities []string) Option {
	return func(f *Fetcher) {
		if len(identities) > 0 {
			f.identities = append([]string(nil), identities...)
		}
	}
}

// Fetcher drives the strategy/identity retry loop around the engine.
type Fetcher struct {
	cfg        *config.Config
	engine     ytdlp.Downloader
	classifier *Classifier
	identities []string
	logger     *slog.Logger
}

// New constructs a fetcher.
func New(cfg *config.Config, engine ytdlp.Downloader, opts ...Option) (*Fetcher, error) {
	if cfg == nil {
		return nil, errors.New("fetcher requires config")
	}
	if engine == nil {
		return nil, errors.New("fetcher requires engine")
	}
	fetcher := &Fetcher{
		cfg:        cfg,
		engine:     engine,
		classifier: NewClassifier(),
		identities: Identities(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher, nil
}

type target struct {
	videoID     string
	url         string
	destDir     string
	partialPath string
	finalPath   string
}

type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeBotChallenge
	outcomeFatal
)

// Fetch downloads the video behind rawURL, trying authentication strategies
// and client identities in order until one attempt succeeds. All failures
// surface as *Error. The call blocks until a terminal state; attempts are
// strictly sequential and a per-video lock serializes concurrent calls for
// the same id.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, explicitJar string) (*Result, error) {
	videoID, err := VideoID(rawURL)
	if err != nil {
		return nil, err
	}

	logger := f.logger.With(logging.String("component", "fetcher"), logging.String("video_id", videoID))

	tgt := target{
		videoID:     videoID,
		url:         rawURL,
		destDir:     filepath.Join(f.cfg.Paths.DownloadDir, videoID),
		partialPath: filepath.Join(f.cfg.Paths.DownloadDir, videoID, ".partial", videoID+".mp4"),
		finalPath:   filepath.Join(f.cfg.Paths.DownloadDir, videoID, videoID+".mp4"),
	}

	unlock, err := f.lockVideo(videoID)
	if err != nil {
		return nil, newError(KindEngineFatal, fmt.Sprintf("acquire download lock for %s: %v", videoID, err), 0)
	}
	defer unlock()

	// Another call may have finished this video while we waited on the lock.
	if _, statErr := os.Stat(tgt.finalPath); statErr == nil {
		logger.Info("download already present, skipping engine")
		return f.result(tgt, "already downloaded", 0), nil
	}

	jar := f.resolveJar(explicitJar, logger)
	statuses := cookies.ProbeBrowsers(ctx, f.engine, logger)
	strategies := PlanStrategies(jar.usablePath(), cookies.Available(statuses))

	logger.Info("starting download",
		logging.Int("strategies", len(strategies)),
		logging.Int("identities", len(f.identities)))

	attempts := 0
	for _, strategy := range strategies {
		for _, identity := range f.identities {
			attempts++
			outcome, message := f.attempt(ctx, tgt, strategy, identity)
			switch outcome {
			case outcomeSuccess:
				logger.Info("download complete",
					logging.String("strategy", strategy.Description),
					logging.Int("attempts", attempts))
				return f.result(tgt, strategy.Description, attempts), nil
			case outcomeBotChallenge:
				logger.Warn("bot challenge, rotating",
					logging.String("strategy", strategy.Description),
					logging.Int("attempt", attempts))
			case outcomeFatal:
				logger.Error("fatal engine failure",
					logging.String("strategy", strategy.Description),
					logging.Int("attempt", attempts),
					logging.String("message", message))
				return nil, newError(KindEngineFatal, message, attempts)
			}
		}
	}

	report := exhaustedReport(len(strategies), statuses, jar)
	logger.Error("all strategies exhausted", logging.Int("attempts", attempts))
	return nil, newError(KindExhausted, report, attempts)
}

// attempt runs the engine once with a fully materialized option set and
// interprets the outcome. On failure the second return is the message to
// classify or surface.
func (f *Fetcher) attempt(ctx context.Context, tgt target, strategy Strategy, identity string) (attemptOutcome, string) {
	if err := os.MkdirAll(filepath.Dir(tgt.partialPath), 0o755); err != nil {
		return outcomeFatal, fmt.Sprintf("prepare destination: %v", err)
	}

	req := ytdlp.Request{
		URL:              tgt.url,
		OutputPath:       tgt.partialPath,
		Format:           f.cfg.Engine.Format,
		UserAgent:        identity,
		Referer:          youtubeReferer,
		Origin:           youtubeOrigin,
		Retries:          f.cfg.Engine.Retries,
		FragmentRetries:  f.cfg.Engine.FragmentRetries,
		ExtractorRetries: f.cfg.Engine.ExtractorRetries,
		SleepInterval:    f.cfg.Engine.SleepInterval,
		MaxSleepInterval: f.cfg.Engine.MaxSleepInterval,
	}
	switch strategy.Credential.Kind {
	case CredentialFile:
		req.CookiesFile = strategy.Credential.Path
	case CredentialBrowser:
		req.CookiesFromBrowser = strategy.Credential.Browser
	}

	if err := f.engine.Download(ctx, req, nil); err != nil {
		message := err.Error()
		if f.classifier.IsBotChallenge(message) {
			return outcomeBotChallenge, message
		}
		return outcomeFatal, message
	}

	if _, err := os.Stat(tgt.partialPath); err != nil {
		// The engine claimed success but produced nothing. Not a bot
		// challenge, so this aborts instead of burning further strategies.
		return outcomeFatal, fmt.Sprintf("engine reported success but %s is missing", tgt.partialPath)
	}
	if err := os.Rename(tgt.partialPath, tgt.finalPath); err != nil {
		return outcomeFatal, fmt.Sprintf("finalize download: %v", err)
	}
	_ = os.Remove(filepath.Dir(tgt.partialPath))
	return outcomeSuccess, ""
}

func (f *Fetcher) result(tgt target, strategy string, attempts int) *Result {
	return &Result{
		VideoID:     tgt.videoID,
		Path:        tgt.finalPath,
		Filename:    filepath.Base(tgt.finalPath),
		DownloadURL: DownloadURLPrefix + tgt.videoID,
		Strategy:    strategy,
		Attempts:    attempts,
	}
}

// lockVideo serializes fetches per video id across goroutines and processes.
func (f *Fetcher) lockVideo(videoID string) (func(), error) {
	lockDir := filepath.Join(f.cfg.Paths.DownloadDir, ".locks")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(lockDir, videoID+".lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("flock: %w", err)
	}
	return func() { _ = lock.Unlock() }, nil
}

type jarInfo struct {
	resolvedPath string
	valid        bool
	report       cookies.Report
}

func (j jarInfo) usablePath() string {
	if j.valid {
		return j.resolvedPath
	}
	return ""
}

// resolveJar locates and validates a cookie jar. The configured override is
// threaded in from config so nothing here reads process state.
func (f *Fetcher) resolveJar(explicit string, logger *slog.Logger) jarInfo {
	info := jarInfo{
		resolvedPath: cookies.Resolve(explicit, f.cfg.Cookies.File, f.cfg.Cookies.Dir),
	}
	if info.resolvedPath == "" {
		logger.Debug("no cookie jar found")
		return info
	}
	info.report = cookies.Inspect(info.resolvedPath, timeNow())
	info.valid = info.report.Usable(f.cfg.Cookies.MinValid)
	if info.valid {
		logger.Debug("cookie jar validated",
			logging.String("path", info.resolvedPath),
			logging.Int("valid_cookies", info.report.Valid))
	} else {
		logger.Warn("cookie jar failed validation",
			logging.String("path", info.resolvedPath),
			logging.Int("valid_cookies", info.report.Valid),
			logging.Int("expired_cookies", info.report.Expired))
	}
	return info
}
