package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"ytfetch/internal/config"
	"ytfetch/internal/deps"
	"ytfetch/internal/fetch"
	"ytfetch/internal/history"
	"ytfetch/internal/logging"
)

// Daemon coordinates the HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher *fetch.Fetcher
	store   *history.Store

	lockPath string
	lock     *flock.Flock
	server   *apiServer
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, fetcher *fetch.Fetcher, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || fetcher == nil || store == nil {
		return nil, errors.New("daemon requires config, fetcher, and history store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "ytfetchd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		fetcher:  fetcher,
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Run acquires the instance lock, starts the API server, and blocks until the
// context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ytfetch daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	statuses := deps.CheckBinaries(deps.Requirements(d.cfg.Engine.Binary))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %v", missing)
	}
	for _, status := range statuses {
		if !status.Available {
			d.logger.Warn("optional dependency unavailable",
				logging.String("name", status.Name),
				logging.String("detail", status.Detail))
		}
	}

	if err := d.server.start(ctx); err != nil {
		return err
	}
	d.logger.Info("ytfetch daemon started",
		logging.String("lock", d.lockPath),
		logging.String("download_dir", d.cfg.Paths.DownloadDir))

	<-ctx.Done()
	d.server.stop()
	d.logger.Info("ytfetch daemon stopped")
	return nil
}

// Dependencies reports external binary availability for the health endpoint.
func (d *Daemon) Dependencies() []deps.Status {
	return deps.CheckBinaries(deps.Requirements(d.cfg.Engine.Binary))
}
