package router

import (
	"context"
	"net/http"
	"time"

	"pet-weight-tracker/internal/adapters/storage"
	mem "pet-weight-tracker/internal/adapters/storage/memory"
	_ "pet-weight-tracker/internal/docs"
	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/domain/weights"
	"pet-weight-tracker/internal/metrics"
	"pet-weight-tracker/internal/middleware"
	"pet-weight-tracker/internal/platform/logger"
	"pet-weight-tracker/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const healthTimeout = 2 * time.Second

type Options struct {
	AuthVerifier auth.AuthVerifier // nil => modo header confiable
	UserHeader   string            // default X-User-ID

	// Opcional: si es nil se usa un store en memoria.
	Store storage.Store

	Logger logger.Logger

	// Registry recibe las métricas; nil => registry propio.
	Registry *prometheus.Registry

	RateLimiter *middleware.RateLimiter // nil => sin límite
	CORSOrigin  string                  // vacío => sin CORS
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	store := opts.Store
	if store == nil {
		store = mem.New()
	}

	collector := metrics.NewCollector(reg)
	rs := middleware.NewResponder(log, collector)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS(opts.CORSOrigin))

	// Antes de montar subrouters, para que los hereden.
	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	r.Get("/health", healthHandler(store))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	usersSvc := users.NewService(store.Users())
	petsSvc := pets.NewService(store.Pets(), store.Weights(), usersSvc)
	weightsSvc := weights.NewService(store.Weights(), petsSvc)

	r.Group(func(api chi.Router) {
		api.Use(middleware.AuthContext(opts.AuthVerifier, opts.UserHeader))
		if opts.RateLimiter != nil {
			api.Use(opts.RateLimiter.Middleware)
		}

		pets.RegisterRoutes(api, petsSvc, rs)
		weights.RegisterRoutes(api, weightsSvc, rs)
	})

	return r
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
}

// healthHandler godoc
// @Summary Healthcheck
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			middleware.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		middleware.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
