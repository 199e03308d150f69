package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"iocc/internal/demo"
	"iocc/pkg/scope"
)

func testConfig() Config {
	return Config{AppName: "test", Languages: []string{"en", "zh"}, Listen: ":0"}
}

func TestWire_Greet(t *testing.T) {
	var out bytes.Buffer
	w, err := NewWire(testConfig(), scope.SingletonOnly, &out, nil)
	if err != nil {
		t.Fatalf("new wire: %v", err)
	}
	if err := w.Greet(context.Background()); err != nil {
		t.Fatalf("greet: %v", err)
	}
	if !strings.HasPrefix(out.String(), "[test] Greeting from IOCC managed objects:\n[test] Hello World!\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestWire_BadLanguage_Fails(t *testing.T) {
	cfg := testConfig()
	cfg.Languages = []string{"xx"}
	if _, err := NewWire(cfg, scope.SingletonOnly, nil, nil); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestWire_Report_Saved(t *testing.T) {
	cfg := testConfig()
	cfg.ReportDir = filepath.Join(t.TempDir(), "out")
	w, err := NewWire(cfg, scope.Web, nil, nil)
	if err != nil {
		t.Fatalf("new wire: %v", err)
	}
	r, path, err := w.Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if path != filepath.Join(cfg.ReportDir, "bindings.json") {
		t.Fatalf("path = %q", path)
	}
	// app_name, output, Logger, 2 greeters, App, Session, Visit
	if len(r.Bindings) != 8 {
		t.Fatalf("bindings = %d, want 8", len(r.Bindings))
	}
}

func TestWire_Handler(t *testing.T) {
	w, err := NewWire(testConfig(), scope.Web, nil, nil)
	if err != nil {
		t.Fatalf("new wire: %v", err)
	}
	h, err := w.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greet?lang=en", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var body demo.GreetResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Visit != 1 || body.Greetings[demo.English] != "Hello World!" {
		t.Fatalf("body = %+v", body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestWire_Handler_SingletonOnly_Fails(t *testing.T) {
	w, err := NewWire(testConfig(), scope.SingletonOnly, nil, nil)
	if err != nil {
		t.Fatalf("new wire: %v", err)
	}
	if _, err := w.Handler(); err == nil {
		t.Fatal("expected error without session scope")
	}
}
