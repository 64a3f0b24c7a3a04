package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_CheckLiveness(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("Expected status ok, got %s", status.Status)
	}
	if status.Timestamp.IsZero() {
		t.Error("Expected non-zero timestamp")
	}
}

func TestChecker_CheckReadiness(t *testing.T) {
	t.Run("no checks registered", func(t *testing.T) {
		checker := New(time.Second)

		status := checker.CheckReadiness(context.Background())
		if status.Status != "ready" {
			t.Errorf("Expected status ready, got %s", status.Status)
		}
	})

	t.Run("all healthy", func(t *testing.T) {
		checker := New(time.Second)
		checker.RegisterCheck("posture_store", func(ctx context.Context) error { return nil })
		checker.RegisterCheck("audit_storage", func(ctx context.Context) error { return nil })

		status := checker.CheckReadiness(context.Background())
		if status.Status != "ready" {
			t.Errorf("Expected status ready, got %s", status.Status)
		}
		if len(status.Checks) != 2 {
			t.Errorf("Expected 2 check results, got %d", len(status.Checks))
		}
		if status.Checks["posture_store"].Status != "ok" {
			t.Errorf("Expected posture_store ok, got %+v", status.Checks["posture_store"])
		}
	})

	t.Run("one unhealthy degrades", func(t *testing.T) {
		checker := New(time.Second)
		checker.RegisterCheck("posture_store", func(ctx context.Context) error { return nil })
		checker.RegisterCheck("audit_storage", func(ctx context.Context) error {
			return errors.New("database is locked")
		})

		status := checker.CheckReadiness(context.Background())
		if status.Status != "degraded" {
			t.Errorf("Expected status degraded, got %s", status.Status)
		}
		result := status.Checks["audit_storage"]
		if result.Status != "unhealthy" || result.Message != "database is locked" {
			t.Errorf("Unexpected audit_storage result: %+v", result)
		}
	})

	t.Run("slow check times out", func(t *testing.T) {
		checker := New(20 * time.Millisecond)
		checker.RegisterCheck("slow", func(ctx context.Context) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		status := checker.CheckReadiness(context.Background())
		if status.Status != "degraded" {
			t.Errorf("Expected status degraded, got %s", status.Status)
		}
	})
}

func TestChecker_UnregisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("temp", func(ctx context.Context) error { return nil })

	if checker.CheckCount() != 1 {
		t.Fatalf("Expected 1 check, got %d", checker.CheckCount())
	}
	checker.UnregisterCheck("temp")
	if checker.CheckCount() != 0 {
		t.Errorf("Expected 0 checks, got %d", checker.CheckCount())
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("Expected status ok, got %s", status.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		checker := New(time.Second)
		checker.RegisterCheck("ok", func(ctx context.Context) error { return nil })

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("degraded returns 503", func(t *testing.T) {
		checker := New(time.Second)
		checker.RegisterCheck("bad", func(ctx context.Context) error {
			return errors.New("unavailable")
		})

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		checker := New(time.Second)

		req := httptest.NewRequest(http.MethodPost, "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", rec.Code)
		}
	})
}

func TestVersionHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-08-28T00:00:00Z")(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" {
		t.Errorf("Unexpected version info: %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("Expected go version to be populated")
	}
}
