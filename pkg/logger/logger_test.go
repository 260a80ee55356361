package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func resetInstance() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	return line
}

func TestInit_AttachesServiceField(t *testing.T) {
	resetInstance()
	t.Cleanup(resetInstance)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "accounts"})
	log.Info().Msg("hello")

	line := decodeLine(t, &buf)
	if line["service"] != "accounts" || line["message"] != "hello" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestInit_OnlyFirstCallWins(t *testing.T) {
	resetInstance()
	t.Cleanup(resetInstance)

	var first, second bytes.Buffer
	Init(Options{Output: &first, Service: "one"})
	Init(Options{Output: &second, Service: "two"})

	l := Get()
	l.Info().Msg("x")

	if second.Len() != 0 || first.Len() == 0 {
		t.Fatalf("second Init must be ignored")
	}
}

func TestComponent_AddsField(t *testing.T) {
	resetInstance()
	t.Cleanup(resetInstance)

	var buf bytes.Buffer
	Init(Options{Output: &buf, Service: "supplier"})

	l := Component("accountsvc")
	l.Warn().Msg("slow upstream")

	line := decodeLine(t, &buf)
	if line["service"] != "supplier" || line["component"] != "accountsvc" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	resetInstance()
	t.Cleanup(resetInstance)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic before Init")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"":        "info",
		"DEBUG":   "debug",
		"warning": "warn",
		"bogus":   "info",
		"trace":   "trace",
		"panic":   "info",
		" error ": "error",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
