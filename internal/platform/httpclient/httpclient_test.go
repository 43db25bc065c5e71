package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckHealth(t *testing.T) {
	status := http.StatusOK
	body := `{"status":"ok"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.CheckHealth(context.Background()); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}

	status, body = http.StatusServiceUnavailable, `{"status":"unavailable"}`
	_, err = c.CheckHealth(context.Background())
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 HTTPError, got %v", err)
	}
}

func TestDoJSON_DecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Pet not found"}`))
	}))
	defer srv.Close()

	err := New(0).DoJSON(context.Background(), http.MethodGet, srv.URL+"/pets/9", nil, nil, nil)
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Message != "Pet not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResolveURL_RelativeNeedsBase(t *testing.T) {
	if _, err := New(0).resolveURL("/health"); err == nil {
		t.Fatal("expected error without BaseURL")
	}
	if _, err := NewWithBaseURL("not a url", 0); err == nil {
		t.Fatal("expected invalid base url error")
	}
}
