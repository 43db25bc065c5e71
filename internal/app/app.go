// Package app arma el proceso: config -> logger -> store -> router -> http.Server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	jwtauth "pet-weight-tracker/internal/adapters/auth/jwt"
	"pet-weight-tracker/internal/adapters/storage"
	mem "pet-weight-tracker/internal/adapters/storage/memory"
	"pet-weight-tracker/internal/adapters/storage/postgres"
	"pet-weight-tracker/internal/adapters/storage/sqlite"
	"pet-weight-tracker/internal/config"
	"pet-weight-tracker/internal/middleware"
	"pet-weight-tracker/internal/platform/logger"
	"pet-weight-tracker/internal/ports/auth"
	"pet-weight-tracker/internal/router"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"golang.org/x/sync/errgroup"
)

const sentryFlushTimeout = 2 * time.Second

// NewLogger construye el logger del proceso desde cfg.
func NewLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
}

// OpenStore abre el datastore configurado. Con AutoMigrate aplica el
// esquema antes de devolverlo.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMemory, "":
		log.Warn("using in-memory store; data is lost on restart", nil)
		return mem.New(), nil

	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DBDSN); err != nil {
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
		}
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		log.Info("postgres store ready", map[string]any{"auto_migrate": cfg.AutoMigrate})
		return postgres.NewStore(db), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store := sqlite.NewStore(db)
		if cfg.AutoMigrate {
			if err := sqlite.RunMigrations(ctx, db, log); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("sqlite migrations: %w", err)
			}
		}
		log.Info("sqlite store ready", map[string]any{"path": cfg.SQLitePath})
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate aplica las migraciones del driver configurado sin levantar el server.
func Migrate(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.DBDSN); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		store := sqlite.NewStore(db)
		defer store.Close()
		if err := sqlite.RunMigrations(ctx, db, log); err != nil {
			return fmt.Errorf("sqlite migrations: %w", err)
		}
	default:
		log.Info("memory store has no schema; nothing to migrate", nil)
		return nil
	}

	log.Info("migrations applied", map[string]any{"driver": cfg.DBDriver})
	return nil
}

// InitSentry activa el reporte de errores si hay SENTRY_DSN.
// Devuelve la función de flush para el shutdown.
func InitSentry(cfg *config.Config, log logger.Logger) func() {
	if cfg.SentryDSN == "" {
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		ServerName:       cfg.AppName,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		log.Error("sentry init failed", map[string]any{"error": err})
		return func() {}
	}
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// Verifier devuelve el verifier JWT si hay secreto; nil => modo header confiable.
func Verifier(cfg *config.Config) auth.AuthVerifier {
	if cfg.JWTSecret == "" {
		return nil
	}
	return jwtauth.NewVerifier(cfg.JWTSecret)
}

// NewHandler arma el handler HTTP completo. stop libera el rate limiter.
func NewHandler(cfg *config.Config, store storage.Store, log logger.Logger) (h http.Handler, stop func()) {
	opts := router.Options{
		AuthVerifier: Verifier(cfg),
		UserHeader:   cfg.UserHeader,
		Store:        store,
		Logger:       log,
		CORSOrigin:   cfg.CORSAllowedOrigin,
	}

	stop = func() {}
	if cfg.RateLimitPerMinute > 0 {
		rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			PerMinute: cfg.RateLimitPerMinute,
			Burst:     cfg.RateLimitPerMinute,
		}, log)
		opts.RateLimiter = rl
		stop = rl.Stop
	}

	h = router.NewRouter(opts)
	if cfg.SentryDSN != "" {
		// Pone un hub por request en el contexto.
		h = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(h)
	}
	return h, stop
}

// Serve levanta la API y bloquea hasta que ctx se cancele o el server falle.
// Al cancelarse hace shutdown ordenado con cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	flush := InitSentry(cfg, log)
	defer flush()

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("store close failed", map[string]any{"error": err})
		}
	}()

	handler, stop := NewHandler(cfg, store, log)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return run(ctx, srv, cfg.ShutdownTimeout, log)
}

func run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
