package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aussiebroadwan/sessiongate/internal/auth/cache"
	httpapi "github.com/aussiebroadwan/sessiongate/internal/auth/http"
	"github.com/aussiebroadwan/sessiongate/internal/auth/metrics"
	"github.com/aussiebroadwan/sessiongate/internal/auth/service"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store"
	"github.com/aussiebroadwan/sessiongate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessiongate/pkg/jwtx"
	"github.com/aussiebroadwan/sessiongate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the session service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	cache   cache.SessionCache
	keys    *jwtx.KeySet
	metrics *metrics.Metrics

	// Services
	binder              *service.DeviceBinder
	tokenRegistry       *service.TokenRegistry
	sessionService      *service.SessionService
	revocationService   *service.RevocationService
	allowListService    *service.AllowListService
	guard               *service.Guard
	housekeepingService *service.HousekeepingService

	// Background JWKS refresh, only when AUTH_JWKS_URL is set
	jwks     *jwtx.JWKSFetcher
	stopJWKS context.CancelFunc
	jwksWG   sync.WaitGroup

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sessiongate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initKeys(ctx); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize verification keys: %w", err)
	}
	if err := app.initCache(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.startJWKSRefresh()

	app.logger.Info("session service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.stopJWKS != nil {
		app.stopJWKS()
		app.jwksWG.Wait()
	}

	if c, ok := app.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing session cache", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("session service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initKeys loads the keys access tokens are verified with. A JWKS endpoint
// that is down at startup is not fatal: the refresher keeps trying and
// /readyz reports the missing keys meanwhile.
func (app *Application) initKeys(ctx context.Context) error {
	app.keys = jwtx.NewKeySet()

	if app.cfg.PublicKeyFile != "" {
		data, err := os.ReadFile(app.cfg.PublicKeyFile)
		if err != nil {
			return err
		}
		if err := app.keys.AddPEM("default", data); err != nil {
			return err
		}
		app.logger.Info("verification key loaded", "file", app.cfg.PublicKeyFile)
		return nil
	}

	app.jwks = &jwtx.JWKSFetcher{
		URL:  app.cfg.JWKSURL,
		Keys: app.keys,
	}
	if err := app.jwks.Refresh(ctx); err != nil {
		app.logger.Warn("initial JWKS fetch failed, will retry", "url", app.cfg.JWKSURL, "error", err)
		return nil
	}
	app.logger.Info("verification keys fetched", "url", app.cfg.JWKSURL)
	return nil
}

func (app *Application) startJWKSRefresh() {
	if app.jwks == nil {
		return
	}
	interval := app.cfg.JWKSRefreshInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.stopJWKS = cancel
	app.jwksWG.Add(1)

	go func() {
		defer app.jwksWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := app.jwks.Refresh(ctx); err != nil && ctx.Err() == nil {
					app.logger.Warn("JWKS refresh failed", "url", app.jwks.URL, "error", err)
				}
			}
		}
	}()
}

// initCache connects to Redis when configured, otherwise the guard reads
// straight from the database.
func (app *Application) initCache(ctx context.Context) error {
	if app.cfg.RedisAddr == "" {
		app.cache = cache.Noop{}
		app.logger.Info("session cache disabled")
		return nil
	}

	rc, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:      app.cfg.RedisAddr,
		Password:  app.cfg.RedisPassword,
		DB:        app.cfg.RedisDB,
		KeyPrefix: cache.DefaultKeyPrefix + app.cfg.Env + ":",
		TTL:       app.cfg.GuardCacheTTL,
	})
	if err != nil {
		return err
	}
	app.cache = rc
	app.logger.Info("session cache enabled", "addr", app.cfg.RedisAddr, "ttl", app.cfg.GuardCacheTTL)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.binder = &service.DeviceBinder{Metrics: app.metrics}
	app.tokenRegistry = &service.TokenRegistry{Store: app.db}

	app.revocationService = &service.RevocationService{
		Store:   app.db,
		Tokens:  app.tokenRegistry,
		Cache:   app.cache,
		Metrics: app.metrics,
	}
	app.sessionService = &service.SessionService{
		Store:                    app.db,
		Binder:                   app.binder,
		Tokens:                   app.tokenRegistry,
		Cache:                    app.cache,
		Metrics:                  app.metrics,
		RequireReauthAfterRevoke: !app.cfg.SessionResurrectOnRefresh,
	}
	app.allowListService = &service.AllowListService{
		Store:      app.db,
		Revocation: app.revocationService,
	}
	app.guard = &service.Guard{
		Store:         app.db,
		Cache:         app.cache,
		Metrics:       app.metrics,
		TouchOnAccess: app.cfg.SessionTouchOnAccess,
		TouchInterval: app.cfg.SessionTouchInterval,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifier(app.keys, jwtx.VerifyOptions{
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audiences(),
	})

	router := httpapi.NewRouter(
		app.keys,
		verifier,
		app.cfg.HookSecret,
		BuildVersion,
		app.db,
		app.cache,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.RevocationService = app.revocationService
	router.AllowListService = app.allowListService
	router.TokenRegistry = app.tokenRegistry
	router.DeviceBinder = app.binder
	router.Guard = app.guard
	router.Metrics = app.metrics
	router.Limits = app.cfg.RateLimits
	router.GuardOptions = app.guardOptions()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func (app *Application) guardOptions() httpapi.GuardOptions {
	opts := httpapi.DefaultGuardOptions()
	opts.Headers = httpapi.DeviceHeaders{
		ID:       app.cfg.DeviceIDHeader,
		Name:     app.cfg.DeviceNameHeader,
		Platform: app.cfg.PlatformHeader,
	}
	opts.APIPrefix = app.cfg.GuardAPIPrefix
	if paths := app.cfg.SkipPaths(); len(paths) > 0 {
		opts.SkipPaths = paths
	}
	return opts
}
