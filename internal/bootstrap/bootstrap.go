package bootstrap

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ytget/app-organizer/internal/config"
	"github.com/ytget/app-organizer/internal/icons"
	"github.com/ytget/app-organizer/internal/logging"
	"github.com/ytget/app-organizer/internal/store"
)

// Options selects the configuration and overrides a few of its values
type Options struct {
	ConfigPath string // empty searches the default locations
	LogLevel   string // overrides logging.level when set
	NoCache    bool   // forces a memory-only icon store
}

// Services are the long-lived collaborators shared by the frontends
type Services struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   *store.IconStore
	Source  *icons.PlayStoreSource
	Fetcher *icons.Fetcher

	closers []io.Closer
}

// Open loads the configuration and builds the services. Close releases them.
func Open(opts Options) (*Services, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.NoCache {
		cfg.Cache.Disabled = true
	}
	return New(cfg)
}

// New builds the services from an already loaded configuration
func New(cfg *config.Config) (*Services, error) {
	logger, logCloser, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	s := &Services{
		Config:  cfg,
		Logger:  logger,
		closers: []io.Closer{logCloser},
	}

	storePath := cfg.Cache.Path
	if cfg.Cache.Disabled {
		storePath = ""
	}
	iconStore, err := store.Open(storePath)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Store = iconStore
	s.closers = append(s.closers, iconStore)

	s.Source = icons.NewPlayStoreSource(cfg.Fetch)
	s.Fetcher = icons.NewFetcher(s.Source, iconStore, logger)

	logger.Debug().
		Str("store", storePath).
		Int("max_parallel", cfg.Fetch.MaxParallel).
		Msg("services ready")
	return s, nil
}

// Close releases the icon store and the log file, newest first
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
