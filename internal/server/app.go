// Package server wires the gallery components together: it opens the
// entry store and the asset store named by the configuration, builds the
// services and the HTTP router, and runs the HTTP server until the context
// is cancelled or a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/config"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gallery/internal/server/rest"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/dmitrijs2005/gallery/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	closeLog func() error
	db       *sql.DB
	handler  http.Handler
}

// NewApp validates c and builds every component. Nothing is listening yet.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Backend: c.LogBackend, Level: c.LogLevel, FilePath: c.LogFile})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger, closeLog: closeLog}

	repo, err := app.openEntryStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	assets, err := app.openAssetStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	es := services.NewEntryService(repo, assets, logger.With("component", "entries"), c)
	ps := services.NewPublishService(repo, assets, logger.With("component", "publish"), c)

	app.handler = rest.NewRouter(rest.RouterOptions{
		Entries:      rest.NewEntryHandler(es),
		Publish:      rest.NewPublishHandler(ps),
		Logger:       logger.With("component", "http"),
		TokenSecret:  c.TokenSecret,
		MaxBodyBytes: int64(c.MaxBodyBytes),
	})

	return app, nil
}

func (app *App) openEntryStore(ctx context.Context) (entries.Repository, error) {
	if app.config.StoreBackend == config.StoreMemory {
		app.logger.Warn(ctx, "using in-memory entry store, data is lost on exit")
		return entries.NewMemoryRepository(), nil
	}

	db, err := openDB(app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(app.config.TableName)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	app.logger.Info(ctx, "entry store ready", "table", app.config.TableName)
	return rm.Entries(db), nil
}

func (app *App) openAssetStore(ctx context.Context) (storage.AssetStore, error) {
	if app.config.AssetBackend == config.AssetsMemory {
		app.logger.Warn(ctx, "using in-memory asset store, uploads are not reachable")
		return storage.NewMemoryStore(app.config.BucketName), nil
	}

	s, err := storage.NewS3Store(ctx, storage.S3Options{
		Bucket:    app.config.BucketName,
		Region:    app.config.S3Region,
		Endpoint:  app.config.S3BaseEndpoint,
		AccessKey: app.config.S3AccessKey,
		SecretKey: app.config.S3SecretKey,
		PublicURL: app.config.CDNBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("asset store init error: %w", err)
	}
	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then shuts the server down gracefully and releases resources.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddrHTTP, err)
	}

	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting app...", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the database and flushes the logger. It is safe to call
// more than once.
func (app *App) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
		app.db = nil
	}
	if app.closeLog != nil {
		_ = app.closeLog()
		app.closeLog = nil
	}
}
