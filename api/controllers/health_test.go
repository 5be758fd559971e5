package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/berrythread/storefront-api/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", Port: "8080"}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(healthConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Storefront-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReady(t *testing.T) {
	logg := testLogger()

	decodeChecks := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
		t.Helper()
		var envelope struct {
			Data struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return envelope.Data.Checks
	}

	t.Run("all dependencies up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), logg, stubPinger{}, stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		checks := decodeChecks(t, rec)
		if checks["db"] != "up" || checks["redis"] != "up" {
			t.Fatalf("unexpected checks %v", checks)
		}
	})

	t.Run("redis down degrades", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), logg, stubPinger{}, stubPinger{err: errors.New("refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		checks := decodeChecks(t, rec)
		if checks["redis"] != "down" || checks["db"] != "up" {
			t.Fatalf("unexpected checks %v", checks)
		}
	})

	t.Run("nil pinger skipped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), logg, nil, stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if checks := decodeChecks(t, rec); checks["db"] != "skipped" {
			t.Fatalf("unexpected checks %v", checks)
		}
	})
}
