// Package app wires the configuration, logging, session token and the
// material client together for the command line tools.
package app

import (
	"fmt"

	"github.com/patric-chuzhbe/materials/internal/config"
	"github.com/patric-chuzhbe/materials/internal/logger"
	"github.com/patric-chuzhbe/materials/internal/material"
	"github.com/patric-chuzhbe/materials/internal/requester"
	"github.com/patric-chuzhbe/materials/internal/token"
)

// App holds everything a materials command needs.
type App struct {
	cfg    *config.Config
	tokens token.Store
	client *material.Client
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting the session token store
// - setting up the material client
func New(optionsProto ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.tokens = getTokenStore(app.cfg)

	app.client = material.New(
		requester.New(app.cfg.APIBaseURL, app.cfg.RequestTimeout, app.tokens),
		material.WithLegacyUpdate(app.cfg.LegacyUpdate),
	)

	return app, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Tokens returns the store the session token is read from.
func (a *App) Tokens() token.Store {
	return a.tokens
}

// Client returns the material client.
func (a *App) Client() *material.Client {
	return a.client
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getTokenStore(cfg *config.Config) token.Store {
	if cfg.TokenFile != "" {
		return token.NewFileStore(cfg.TokenFile)
	}

	return token.NewEnvStore(cfg.TokenEnv)
}
