package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/placeholder"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/ui"
)

// Options configure the roster application.
type Options struct {
	ConfigPath string // empty uses ~/.config/roster/config.toml
	EnvFile    string // empty uses ./.env when present
	PrefsPath  string // empty uses ~/.config/roster/prefs.toml
}

// Env holds the services every entry point shares.
type Env struct {
	Config config.Config
	Log    *logrus.Logger
	Client *placeholder.Client
	API    placeholder.API

	logCloser io.Closer
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.logCloser == nil {
		return nil
	}
	return e.logCloser.Close()
}

// Bootstrap loads and validates configuration, then builds the logger and
// API client. A missing API base URL is fatal.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, closer, err := logging.New(logging.Options{Path: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := placeholder.NewClient(placeholder.ClientConfig{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.RateLimit,
		UserAgent: cfg.AppName + "/" + cfg.AppVersion,
		Logger:    log,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	log.WithFields(logrus.Fields{
		"base_url":   client.BaseURL(),
		"timeout":    cfg.APITimeout,
		"rate_limit": cfg.RateLimit,
		"version":    cfg.AppVersion,
	}).Info("roster starting")

	return &Env{
		Config:    cfg,
		Log:       log,
		Client:    client,
		API:       placeholder.NewService(client),
		logCloser: closer,
	}, nil
}

// Run boots the roster TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	themeName := env.Config.Theme
	if saved, err := prefs.Load(prefsPath); err != nil {
		env.Log.WithError(err).Warn("ignoring unreadable preferences")
	} else if saved.Theme != "" {
		themeName = saved.Theme
	}

	uiErr := ui.Run(ui.Options{
		Context:    ctx,
		API:        env.API,
		Logger:     env.Log,
		AppName:    env.Config.AppName,
		AppVersion: env.Config.AppVersion,
		BaseURL:    env.Client.BaseURL(),
		ThemeName:  themeName,
		PrefsPath:  prefsPath,
	})
	if uiErr != nil {
		env.Log.WithError(uiErr).Error("tui exited with error")
		return fmt.Errorf("run tui: %w", uiErr)
	}
	env.Log.Info("roster stopped")
	return nil
}
