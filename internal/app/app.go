package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/five82/albumsync/internal/config"
	"github.com/five82/albumsync/internal/dispatch"
	"github.com/five82/albumsync/internal/prefs"
	"github.com/five82/albumsync/internal/refresh"
	"github.com/five82/albumsync/internal/remote"
	"github.com/five82/albumsync/internal/repository"
	"github.com/five82/albumsync/internal/state"
	"github.com/five82/albumsync/internal/store"
	"github.com/five82/albumsync/internal/ui"
)

// Options configure albumsync. Non-empty fields override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/albumsync/prefs.toml
	BaseURL    string
	DBPath     string
	LogLevel   string
	PollEvery  int // seconds; zero uses the configured interval

	// LogWriter replaces the log file when set.
	LogWriter io.Writer
}

// Env holds the wired components. Close releases them.
type Env struct {
	Config     config.Config
	Logger     *slog.Logger
	DB         *store.Store
	Client     *remote.Client
	Repo       *repository.Repository
	State      *state.Store
	Controller *refresh.Controller

	closers []func() error
}

// Build loads configuration and wires every component without starting any
// background work.
func Build(opts Options) (*Env, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg}

	logger, closeLog, err := newLogger(cfg, opts.LogWriter)
	if err != nil {
		return nil, err
	}
	env.Logger = logger
	env.closers = append(env.closers, closeLog)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("open album store: %w", err)
	}
	env.DB = db
	env.closers = append(env.closers, db.Close)

	client, err := remote.NewClient(cfg.BaseURL,
		remote.WithTimeout(cfg.RequestTimeout),
		remote.WithLogger(logger))
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init album client: %w", err)
	}
	env.Client = client

	policy, stop := dispatch.Standard(cfg.IOWorkers)
	env.closers = append(env.closers, func() error { stop(); return nil })

	env.Repo = repository.New(client, db, policy, logger)
	env.State = &state.Store{}
	env.Controller = refresh.New(env.Repo, env.State, policy, logger)

	logger.Debug("albumsync ready",
		"base_url", client.BaseURL(),
		"db_path", cfg.DBPath,
		"io_workers", cfg.IOWorkers)
	return env, nil
}

// Close releases resources in reverse order of acquisition.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Run boots the albumsync TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Build(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start background poller; its first pass shows the cache, then refreshes.
	done := StartPoller(ctx, env.Controller, env.Config.PollInterval, env.Logger)

	uiOpts := ui.Options{
		Context:    ctx,
		Store:      env.State,
		Controller: env.Controller,
		ThemeName:  userPrefs.Theme,
		Owners:     userPrefs.Owners,
		PrefsPath:  opts.PrefsPath,
		Source:     env.Client.BaseURL(),
		Logger:     env.Logger,
	}
	err = ui.Run(uiOpts)
	cancel()
	<-done
	return err
}

// LoadConfig reads the config file named by opts and applies the
// non-empty overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(opts.DBPath); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("db path: %w", err)
		}
		cfg.DBPath = expanded
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		if _, err := config.ParseLevel(v); err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = secondsToDuration(opts.PollEvery)
	}
	return nil
}
