package middleware

import (
	"net/http"
	"time"

	"pet-weight-tracker/internal/metrics"
)

// Metrics registra conteo y latencia por método, patrón de ruta y status.
// El label route es el patrón de chi ("/pets/{petID}"), nunca el path crudo.
func Metrics(rec metrics.Recorder) func(http.Handler) http.Handler {
	if rec == nil {
		rec = metrics.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := record(w)

			next.ServeHTTP(sr, r)

			rec.RecordRequest(r.Method, routePattern(r), sr.status, time.Since(start))
		})
	}
}
