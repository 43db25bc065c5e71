// Package apperr define la taxonomía de errores de la API y su mapeo a HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound lo devuelven los repositorios cuando ninguna fila coincide.
var ErrNotFound = errors.New("not found")

// ValidationError: input mal formado o incompleto (400).
// Public es el texto que ve el cliente; si está vacío se usa Message.
type ValidationError struct {
	Field   string
	Message string
	Public  string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) PublicMessage() string {
	if e.Public != "" {
		return e.Public
	}
	return e.Message
}

// NotFoundError: no existe la entidad pedida (404).
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// AuthError: falta o es inválida la identidad del caller (401).
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unauthenticated"
	}
	return "unauthenticated: " + e.Reason
}

// MethodNotSupportedError: verbo no implementado para la ruta (405).
type MethodNotSupportedError struct {
	Method string
	Path   string
}

func (e *MethodNotSupportedError) Error() string {
	return fmt.Sprintf("method %s not allowed on %s", e.Method, e.Path)
}

// PersistenceError envuelve una falla inesperada del datastore (500).
// Op es el nombre de la operación, p.ej. "Create pet".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Op + " failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// InvalidField arma un ValidationError con mensaje interno y público distintos.
func InvalidField(field, msg, public string) error {
	return &ValidationError{Field: field, Message: msg, Public: public}
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func Unauthenticated(reason string) error {
	return &AuthError{Reason: reason}
}

// Persistence envuelve err salvo que ya sea un error tipado de la taxonomía.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTyped(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsTyped indica si err (o algo en su cadena) pertenece a la taxonomía.
func IsTyped(err error) bool {
	var (
		ve *ValidationError
		ne *NotFoundError
		ae *AuthError
		me *MethodNotSupportedError
		pe *PersistenceError
	)
	return errors.As(err, &ve) || errors.As(err, &ne) || errors.As(err, &ae) ||
		errors.As(err, &me) || errors.As(err, &pe)
}

// Status mapea err al código HTTP correspondiente.
func Status(err error) int {
	var (
		ve *ValidationError
		ne *NotFoundError
		ae *AuthError
		me *MethodNotSupportedError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &me):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
