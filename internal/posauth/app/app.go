package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/creditpos/internal/posauth/http"
	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite"
	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/aussiebroadwan/creditpos/pkg/slogx"
	"github.com/pkg/errors"
)

// BuildVersion is overridden at build time via -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	secret   []byte
	cache    *identity.TokenCache
	resolver *identity.Resolver

	// Services
	shopService         *service.ShopService
	creditNoteService   *service.CreditNoteService
	adminSessions       *service.AdminSessions
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	secret, err := masterSecret(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.secret = secret

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initIdentity()
	app.initHTTP()

	return app, nil
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "posauth",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("posauth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
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
	app.logger.Info("shutting down posauth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("posauth service stopped")
	return nil
}

// Handler returns the HTTP handler, for tests that drive the app without a listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	shops, err := NewShopService(app.db, app.secret, app.logger)
	if err != nil {
		return err
	}
	app.shopService = shops
	app.creditNoteService = service.NewCreditNoteService(app.db, app.logger)

	app.adminSessions, err = service.NewAdminSessions(service.AdminSessionConfig{
		Secret:     app.secret,
		CookieName: app.cfg.Session.CookieName,
		MaxAge:     app.cfg.Session.MaxAge,
		Secure:     app.cfg.Session.Secure,
	}, app.shopService)
	if err != nil {
		return errors.Wrap(err, "failed to initialize admin sessions")
	}
	return nil
}

// initIdentity wires the session token verifier, the token cache and the
// resolver. The cache sweeper runs as part of housekeeping.
func (app *Application) initIdentity() {
	if app.cfg.Shopify.APISecret == "" {
		app.logger.Warn("SHOPIFY_API_SECRET is not set, every session token will fail validation")
	}

	var audience []string
	if app.cfg.Shopify.APIKey != "" {
		audience = []string{app.cfg.Shopify.APIKey}
	}
	verifier := jwtx.NewVerifierHS256([]byte(app.cfg.Shopify.APISecret), jwtx.VerifyOptions{
		Audience: audience,
		Leeway:   app.cfg.Shopify.TokenLeeway,
	})

	markers := identity.DefaultDeviceMarkers()
	markers.ExtensionOrigin = app.cfg.ExtensionOrigin

	app.cache = identity.NewTokenCache(identity.SystemClock, identity.SystemScheduler)
	app.resolver = identity.NewResolver(
		identity.NewSessionTokenValidator(verifier),
		app.cache,
		identity.WithAdminSession(app.adminSessions),
		identity.WithDeviceMarkers(markers),
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.cache,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.cfg.RateLimits,
		app.cfg.CORSAllowedOrigins,
		app.logger,
	)

	router.Resolver = app.resolver
	router.DefaultShop = app.cfg.DefaultShop
	router.VerifierReady = app.cfg.Shopify.APISecret != ""
	router.ShopService = app.shopService
	router.CreditNoteService = app.creditNoteService
	router.AdminSessions = app.adminSessions
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// OpenStore opens the SQLite database named by cfg and applies migrations.
func OpenStore(cfg Config) (store.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to apply database migrations")
	}
	return db, nil
}

// NewShopService builds the shop service with the access token sealer
// derived from secret.
func NewShopService(st store.Store, secret []byte, logger *slog.Logger) (*service.ShopService, error) {
	key, err := cryptox.DeriveKey(secret, cryptox.PurposeAccessTokenAtRest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive access token key")
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create access token sealer")
	}
	return service.NewShopService(st, sealer, logger), nil
}

// masterSecret returns the configured session secret. Dev gets a random one
// per process, which loses admin sessions and stored access tokens on restart.
func masterSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret), nil
	}
	if !cfg.IsDev() {
		return nil, errors.New("POSAUTH_SESSION_SECRET is required outside dev")
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate dev session secret")
	}
	logger.Warn("POSAUTH_SESSION_SECRET is not set, using an ephemeral secret")
	return []byte(secret), nil
}
