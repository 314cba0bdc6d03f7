package application

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/binpack-search/internal/annealing"
	"github.com/eugenenazirov/binpack-search/internal/config"
	"github.com/eugenenazirov/binpack-search/internal/engine"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.router == nil || app.handler == nil || app.runner == nil {
		t.Fatalf("expected server, router, handler, and runner to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
	if got := app.runner.Settings(); got.Annealing != cfg.Annealing {
		t.Fatalf("expected runner to use configured annealing settings, got %+v", got.Annealing)
	}

	runs, err := app.storage.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty run store, got %d runs", len(runs))
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidSettings(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.Annealing.CoolingRate = 1.5

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for invalid annealing settings")
	}
}

func TestRootHandlerRoutesAPI(t *testing.T) {
	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	root := app.server.Handler

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health to return 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside the API, got %d", rec.Code)
	}
}

func TestSolveThroughApplicationStoresRun(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.MaxStoredRuns = 1
	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := []byte(`{"method":"hc-stochastic","seed":5,"capacity":10,"items":[{"id":"a","size":6},{"id":"b","size":4},{"id":"c","size":5}]}`)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		app.server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	runs, err := app.storage.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected store bounded to 1 run, got %d", len(runs))
	}
}

func baseTestConfig(port string) config.Config {
	settings := engine.DefaultSettings()
	return config.Config{
		Port:                 port,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
		MaxStoredRuns:        10,
		MaxItems:             50,
		Weights:              settings.Weights,
		HillClimbing:         settings.HillClimb,
		Annealing:            annealing.DefaultConfig(),
		Genetic:              settings.Genetic,
	}
}
