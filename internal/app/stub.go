package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/materials/internal/config"
	"github.com/patric-chuzhbe/materials/internal/db/jsondb"
	"github.com/patric-chuzhbe/materials/internal/db/memorystorage"
	"github.com/patric-chuzhbe/materials/internal/db/storage"
	"github.com/patric-chuzhbe/materials/internal/logger"
	"github.com/patric-chuzhbe/materials/internal/router"
)

// Stub is the resource stub backend: the material endpoints served from
// a fixture file or from memory.
type Stub struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// NewStub initializes a new instance of Stub by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - setting up the router and middleware
func NewStub(optionsProto ...config.InitOption) (*Stub, error) {
	var err error
	stub := &Stub{}

	stub.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(stub.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	stub.db, err = getStorage(stub.cfg)
	if err != nil {
		return nil, err
	}

	stub.httpHandler = router.New(stub.db)

	return stub, nil
}

// Handler returns the HTTP handler of the stub.
func (s *Stub) Handler() http.Handler {
	return s.httpHandler
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and saves the fixture upon termination.
func (s *Stub) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx)
}

func (s *Stub) serve(ctx context.Context) error {
	logger.Log.Infoln("resource stub running", "RunAddr", s.cfg.RunAddr)

	server := &http.Server{
		Addr:    s.cfg.RunAddr,
		Handler: s.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving materials and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return s.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by Stub such as logging.
func (s *Stub) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.FixtureFile != "" {
		return jsondb.New(cfg.FixtureFile)
	}

	return memorystorage.New()
}
