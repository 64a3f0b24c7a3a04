package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"northgate/sentinel/pkg/audit"
	auditstorage "northgate/sentinel/pkg/audit/storage"
	"northgate/sentinel/pkg/engine"
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
	"northgate/sentinel/pkg/posture/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func healthyRecord(deviceID string) *posture.Record {
	return &posture.Record{
		DeviceID:   deviceID,
		ObservedAt: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
		OS: posture.OSInfo{
			Family:  posture.OSWindows,
			Version: "10.0.19044",
		},
		DiskEncryptionEnabled: true,
		FirewallEnabled:       true,
		AntivirusEnabled:      true,
		ScreenLockEnabled:     true,
		Authentication: posture.AuthState{
			MFAEnabled:      true,
			PasswordAgeDays: 10,
		},
		Network: posture.NetworkState{
			CurrentNetworkTag: "corp-wifi",
			SourceCountry:     "US",
			VPNConnected:      true,
		},
	}
}

// stubEvaluator returns a canned result or error.
type stubEvaluator struct {
	result *engine.EvaluationResult
	err    error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, rec *posture.Record) (*engine.EvaluationResult, error) {
	if s.result != nil && s.result.DeviceID == "" {
		s.result.DeviceID = rec.DeviceID
	}
	return s.result, s.err
}

func compliantResult(deviceID string) *engine.EvaluationResult {
	return &engine.EvaluationResult{
		DeviceID:      deviceID,
		OverallStatus: engine.StatusCompliant,
		EvaluatedAt:   time.Now().UTC(),
		PerPolicy:     []engine.PolicyEvaluation{},
	}
}

func TestPostureHandler_IngestAndEvaluate(t *testing.T) {
	st := store.NewMemoryStore()
	ev := &stubEvaluator{result: compliantResult("dev-001")}
	handler := NewPostureHandler(st, ev, discardLogger())

	body, _ := json.Marshal(healthyRecord("dev-001"))
	req := httptest.NewRequest(http.MethodPost, "/v1/postures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result engine.EvaluationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if result.DeviceID != "dev-001" || result.OverallStatus != engine.StatusCompliant {
		t.Errorf("Unexpected result: %+v", result)
	}

	// The record must have been stored.
	if _, err := st.Get(context.Background(), "dev-001"); err != nil {
		t.Errorf("Expected stored record: %v", err)
	}
}

func TestPostureHandler_InvalidBody(t *testing.T) {
	handler := NewPostureHandler(store.NewMemoryStore(), &stubEvaluator{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/postures", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestPostureHandler_InvalidRecord(t *testing.T) {
	handler := NewPostureHandler(store.NewMemoryStore(), &stubEvaluator{}, discardLogger())

	invalid := healthyRecord("dev-001")
	invalid.OS.Version = ""
	body, _ := json.Marshal(invalid)

	req := httptest.NewRequest(http.MethodPost, "/v1/postures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if errResp.Error.Code != "invalid_posture" {
		t.Errorf("Expected code invalid_posture, got %s", errResp.Error.Code)
	}
}

func TestPostureHandler_StaleRecord(t *testing.T) {
	st := store.NewMemoryStore()
	handler := NewPostureHandler(st, &stubEvaluator{result: compliantResult("")}, discardLogger())

	newer := healthyRecord("dev-001")
	if err := st.Put(context.Background(), newer); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	older := healthyRecord("dev-001")
	older.ObservedAt = newer.ObservedAt.Add(-time.Hour)
	body, _ := json.Marshal(older)

	req := httptest.NewRequest(http.MethodPost, "/v1/postures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestPostureHandler_ResolutionError(t *testing.T) {
	ev := &stubEvaluator{
		err: engine.NewEvaluationError(engine.KindResolutionError, "dev-001", context.DeadlineExceeded),
	}
	handler := NewPostureHandler(store.NewMemoryStore(), ev, discardLogger())

	body, _ := json.Marshal(healthyRecord("dev-001"))
	req := httptest.NewRequest(http.MethodPost, "/v1/postures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
}

func TestComplianceHandler(t *testing.T) {
	st := store.NewMemoryStore()
	if err := st.Put(context.Background(), healthyRecord("dev-001")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	handler := NewComplianceHandler(st, &stubEvaluator{result: compliantResult("dev-001")}, discardLogger())

	mux := http.NewServeMux()
	mux.Handle("GET /v1/devices/{id}/compliance", handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/devices/dev-001/compliance", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result engine.EvaluationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if result.OverallStatus != engine.StatusCompliant {
		t.Errorf("Expected compliant, got %s", result.OverallStatus)
	}
}

func TestComplianceHandler_UnknownDevice(t *testing.T) {
	handler := NewComplianceHandler(store.NewMemoryStore(), &stubEvaluator{}, discardLogger())

	mux := http.NewServeMux()
	mux.Handle("GET /v1/devices/{id}/compliance", handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/devices/ghost/compliance", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestPoliciesHandler(t *testing.T) {
	registry := &staticCatalog{
		policies: []*policy.Definition{
			{ID: "pol-baseline", Name: "Baseline", Version: 3, Status: policy.StatusActive},
		},
		fingerprint: "abc123",
	}
	handler := NewPoliciesHandler(registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/policies", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp PolicySetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if resp.Count != 1 || resp.Fingerprint != "abc123" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Policies[0].ID != "pol-baseline" {
		t.Errorf("Unexpected policy: %+v", resp.Policies[0])
	}
}

type staticCatalog struct {
	policies    []*policy.Definition
	fingerprint string
}

func (s *staticCatalog) Policies() []*policy.Definition { return s.policies }
func (s *staticCatalog) Fingerprint() string            { return s.fingerprint }

func TestAuditHandler(t *testing.T) {
	storage := auditstorage.NewMemoryStorage()
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	events := []*audit.Event{
		{ID: "evt-1", DeviceID: "dev-001", NewStatus: "compliant", EvaluatedAt: base},
		{ID: "evt-2", DeviceID: "dev-001", PreviousStatus: "compliant", NewStatus: "non-compliant", EvaluatedAt: base.Add(time.Hour)},
		{ID: "evt-3", DeviceID: "dev-002", NewStatus: "compliant", EvaluatedAt: base},
	}
	for _, e := range events {
		if err := storage.Store(context.Background(), e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /v1/devices/{id}/audit", NewAuditHandler(storage, discardLogger()))

	t.Run("all events for device", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/devices/dev-001/audit", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		var resp AuditTrailResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Response is not valid JSON: %v", err)
		}
		if resp.Count != 2 {
			t.Errorf("Expected 2 events, got %d", resp.Count)
		}
		// Newest first.
		if resp.Events[0].ID != "evt-2" {
			t.Errorf("Expected evt-2 first, got %s", resp.Events[0].ID)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/devices/dev-001/audit?status=non-compliant", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		var resp AuditTrailResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Response is not valid JSON: %v", err)
		}
		if resp.Count != 1 || resp.Events[0].ID != "evt-2" {
			t.Errorf("Unexpected filtered events: %+v", resp.Events)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/devices/dev-001/audit?limit=0", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("invalid since", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/devices/dev-001/audit?since=yesterday", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}
