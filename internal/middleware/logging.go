package middleware

import (
	"context"
	"net/http"
	"time"

	"pet-weight-tracker/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// statusRecorder envuelve el ResponseWriter para conocer el status final.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.status = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

func record(w http.ResponseWriter) *statusRecorder {
	if sr, ok := w.(*statusRecorder); ok {
		return sr
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

const identityKey ctxKey = "identity"

// identity lo crea Logging y lo llena AuthContext con el user autenticado.
type identity struct {
	userID int64
}

func noteIdentity(ctx context.Context, userID int64) {
	if id, ok := ctx.Value(identityKey).(*identity); ok {
		id.userID = userID
	}
}

// Logging emite una línea por request: 5xx => error, 4xx => warn, resto info.
func Logging(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)

			// AuthContext corre más adentro (en el grupo de la API) y
			// completa este holder; el request de acá nunca ve sus claims.
			id := &identity{}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), identityKey, id)))

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       routePattern(r),
				"status":      rec.status,
				"duration_ms": float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond),
				"request_id":  GetRequestID(r.Context()),
			}
			if id.userID > 0 {
				fields["user_id"] = id.userID
			}

			switch {
			case rec.status >= 500:
				log.Error("http_request", fields)
			case rec.status >= 400:
				log.Warn("http_request", fields)
			default:
				log.Info("http_request", fields)
			}
		})
	}
}

// routePattern devuelve el patrón de chi ("/pets/{petID}") o "unmatched".
// Solo es válido después de que el router resolvió la ruta.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unmatched"
}
