package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"loud":    Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "pets", Output: &buf})

	l.Debug("hidden", nil)
	l.With(map[string]any{"request_id": "r-1"}).Error("create pet failed", map[string]any{
		"error": errors.New("boom"),
		"":      "dropped",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["level"] != "error" || entry["message"] != "create pet failed" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["app"] != "pets" || entry["request_id"] != "r-1" || entry["error"] != "boom" {
		t.Fatalf("missing fields in %v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatal("empty key should be dropped")
	}
}

func TestTextLogger_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatText, Output: &buf})
	l.Info("server started", map[string]any{"addr": ":8080"})

	out := buf.String()
	if !strings.Contains(out, "server started") || !strings.Contains(out, "addr=:8080") {
		t.Fatalf("unexpected text output %q", out)
	}
}
