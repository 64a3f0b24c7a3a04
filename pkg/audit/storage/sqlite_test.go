package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"northgate/sentinel/pkg/audit"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "audit_test.db")

	storage, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	return storage
}

// TestSQLiteStorage_StoreAndQuery tests the SQLite round trip including
// the violations JSON column.
func TestSQLiteStorage_StoreAndQuery(t *testing.T) {
	storage := newTestSQLite(t)
	ctx := context.Background()

	event := testEvent("evt-1", "dev-001", "compliant", "non-compliant", time.Now().UTC())
	event.Violations = []audit.ViolationRecord{
		{
			PolicyID:        "pol-baseline",
			PolicyVersion:   3,
			RequirementPath: "authentication.mfaRequired",
			Expected:        "true",
			Actual:          "false",
			Reason:          "multi-factor authentication is disabled",
		},
	}

	if err := storage.Store(ctx, event); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	results, err := storage.Query(ctx, &audit.Query{DeviceID: "dev-001"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(results))
	}

	got := results[0]
	if got.ID != "evt-1" {
		t.Errorf("Expected ID 'evt-1', got '%s'", got.ID)
	}
	if got.PreviousStatus != "compliant" || got.NewStatus != "non-compliant" {
		t.Errorf("Transition mismatch: %s -> %s", got.PreviousStatus, got.NewStatus)
	}
	if len(got.Violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(got.Violations))
	}
	if got.Violations[0].RequirementPath != "authentication.mfaRequired" {
		t.Errorf("Violation path mismatch: %s", got.Violations[0].RequirementPath)
	}
	if got.Violations[0].PolicyVersion != 3 {
		t.Errorf("Violation policy version mismatch: %d", got.Violations[0].PolicyVersion)
	}
}

// TestSQLiteStorage_LastStatus tests per-device status lookup.
func TestSQLiteStorage_LastStatus(t *testing.T) {
	storage := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	status, err := storage.LastStatus(ctx, "dev-001")
	if err != nil {
		t.Fatalf("LastStatus() failed: %v", err)
	}
	if status != "" {
		t.Errorf("Expected empty status for unknown device, got '%s'", status)
	}

	events := []*audit.Event{
		testEvent("evt-1", "dev-001", "", "compliant", now.Add(-2*time.Hour)),
		testEvent("evt-2", "dev-001", "compliant", "non-compliant", now.Add(-time.Hour)),
		testEvent("evt-3", "dev-002", "", "compliant", now),
	}
	for _, e := range events {
		if err := storage.Store(ctx, e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	status, err = storage.LastStatus(ctx, "dev-001")
	if err != nil {
		t.Fatalf("LastStatus() failed: %v", err)
	}
	if status != "non-compliant" {
		t.Errorf("Expected 'non-compliant', got '%s'", status)
	}
}

// TestSQLiteStorage_Delete tests cutoff-based deletion.
func TestSQLiteStorage_Delete(t *testing.T) {
	storage := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	events := []*audit.Event{
		testEvent("evt-old", "dev-001", "", "compliant", now.Add(-48*time.Hour)),
		testEvent("evt-new", "dev-001", "compliant", "non-compliant", now),
	}
	for _, e := range events {
		if err := storage.Store(ctx, e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	cutoff := now.Add(-24 * time.Hour)
	deleted, err := storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted, got %d", deleted)
	}

	remaining, err := storage.Query(ctx, &audit.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("Expected 1 remaining, got %d", len(remaining))
	}
	if remaining[0].ID != "evt-new" {
		t.Errorf("Expected 'evt-new' to remain, got '%s'", remaining[0].ID)
	}
}

// TestSQLiteStorage_QueryOrdering tests that events come back newest first.
func TestSQLiteStorage_QueryOrdering(t *testing.T) {
	storage := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, id := range []string{"evt-a", "evt-b", "evt-c"} {
		e := testEvent(id, "dev-001", "", "compliant", now.Add(time.Duration(i)*time.Minute))
		if err := storage.Store(ctx, e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}

	results, err := storage.Query(ctx, &audit.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	want := []string{"evt-c", "evt-b", "evt-a"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("Result %d: expected '%s', got '%s'", i, id, results[i].ID)
		}
	}
}
