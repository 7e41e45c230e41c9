// Package server wires the upload server together: it builds the storage
// gateway once, serves POST /api/upload over HTTP and the health service
// over gRPC, and shuts both down on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/s3drop/internal/logging"
	"github.com/dmitrijs2005/s3drop/internal/server/config"
	"github.com/dmitrijs2005/s3drop/internal/server/httpapi"
	"github.com/dmitrijs2005/s3drop/internal/server/storage"
	"github.com/dmitrijs2005/s3drop/internal/server/uploads"

	gs "github.com/dmitrijs2005/s3drop/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

// test seam
var newGateway = storage.New

type App struct {
	config  *config.Config
	logger  logging.Logger
	gateway storage.Gateway
	service *uploads.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	gw, err := newGateway(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	svc := uploads.NewService(gw, c, uploads.NewLogObserver(logger.With("module", "uploads")))

	return &App{config: c, logger: logger, gateway: gw, service: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Handler returns the HTTP handler with middleware applied.
func (app *App) Handler() http.Handler {
	log := app.logger.With("module", "http_server")
	return httpapi.NewRouter(httpapi.NewHandler(app.service, httpapi.Limits{
		MaxMemory:      app.config.MaxFormMemory,
		MaxFileSize:    app.config.MaxFileSize,
		MaxRequestSize: app.config.MaxRequestSize,
	}, log), log)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.config.HealthCheckInterval, app.gateway)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"driver", app.config.StorageDriver,
		"bucket", app.config.S3Bucket,
		"presign_ttl", app.config.PresignTTL.String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}
