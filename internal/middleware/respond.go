package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pet-weight-tracker/internal/apperr"
	"pet-weight-tracker/internal/metrics"
	"pet-weight-tracker/internal/platform/logger"
	"pet-weight-tracker/internal/validation"

	"github.com/getsentry/sentry-go"
)

const maxBodyBytes = 1 << 20

// ErrorBody es el formato único de error: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// SuccessBody es la respuesta de deletes: {"success": true}.
type SuccessBody struct {
	Success bool `json:"success"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// NotFound y MethodNotAllowed se registran en el router de chi.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// DecodeRecord lee el body como objeto JSON sin tipar.
func DecodeRecord(w http.ResponseWriter, r *http.Request) (validation.Record, error) {
	invalid := apperr.InvalidField("body", "invalid json body", "Invalid JSON body")
	if r.Body == nil {
		return nil, invalid
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var raw validation.Record
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, invalid
	}
	// Un solo valor JSON por body.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, invalid
	}
	return raw, nil
}

// Responder centraliza el mapeo error -> status/body para los handlers.
type Responder struct {
	Log     logger.Logger
	Metrics metrics.Recorder
}

func NewResponder(log logger.Logger, rec metrics.Recorder) *Responder {
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	return &Responder{Log: log, Metrics: rec}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, v)
}

// Fail responde err según la taxonomía. op ("Create pet") se usa en el
// mensaje de 500; el error original solo va al log.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperr.Status(err)

	var (
		ve *apperr.ValidationError
		ne *apperr.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		WriteError(w, status, ve.PublicMessage())
	case errors.As(err, &ne):
		WriteError(w, status, ne.Error())
	case status == http.StatusUnauthorized:
		WriteError(w, status, "Unauthenticated")
	case status == http.StatusMethodNotAllowed:
		WriteError(w, status, "Method not allowed")
	default:
		rs.Log.Error(op+" failed", map[string]any{
			"error":      err,
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": GetRequestID(r.Context()),
		})
		rs.Metrics.RecordPersistenceFailure(op)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		WriteError(w, status, op+" failed")
	}
}
