package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("weightKg", "invalid weightKg"), http.StatusBadRequest},
		{"not found", NotFound("Pet"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", NotFound("Weight")), http.StatusNotFound},
		{"auth", Unauthenticated(""), http.StatusUnauthorized},
		{"method", &MethodNotSupportedError{Method: "PUT", Path: "/pets"}, http.StatusMethodNotAllowed},
		{"persistence", Persistence("Create pet", errors.New("boom")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Status(tc.err); got != tc.want {
				t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestPersistence_KeepsTypedErrors(t *testing.T) {
	nf := NotFound("Pet")
	if got := Persistence("Get pet", nf); got != nf {
		t.Fatalf("expected typed error to pass through, got %v", got)
	}

	raw := errors.New("conn reset")
	got := Persistence("Get pet", raw)
	var pe *PersistenceError
	if !errors.As(got, &pe) {
		t.Fatalf("expected PersistenceError, got %T", got)
	}
	if pe.Op != "Get pet" || !errors.Is(got, raw) {
		t.Fatalf("unexpected wrap: %+v", pe)
	}
	if Persistence("x", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestNotFoundError_Message(t *testing.T) {
	if got := NotFound("Pet").Error(); got != "Pet not found" {
		t.Fatalf("got %q", got)
	}
}
