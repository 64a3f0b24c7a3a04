package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeAssignmentsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assignments.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write assignments file: %v", err)
	}
	return path
}

func TestLoadAssignments(t *testing.T) {
	path := writeAssignmentsFile(t, `
devices:
  laptop-001:
    user: alice@corp.example
    groups: [engineering, remote]
  kiosk-07:
    groups: [lobby]
`)

	assignments, err := LoadAssignments(path)
	if err != nil {
		t.Fatalf("LoadAssignments() error: %v", err)
	}

	if len(assignments) != 2 {
		t.Fatalf("len(assignments) = %d, want 2", len(assignments))
	}

	laptop := assignments["laptop-001"]
	if laptop.User != "alice@corp.example" {
		t.Errorf("laptop-001 user = %q, want %q", laptop.User, "alice@corp.example")
	}
	if len(laptop.Groups) != 2 || laptop.Groups[0] != "engineering" {
		t.Errorf("laptop-001 groups = %v, want [engineering remote]", laptop.Groups)
	}

	kiosk := assignments["kiosk-07"]
	if kiosk.User != "" {
		t.Errorf("kiosk-07 user = %q, want empty", kiosk.User)
	}
	if len(kiosk.Groups) != 1 || kiosk.Groups[0] != "lobby" {
		t.Errorf("kiosk-07 groups = %v, want [lobby]", kiosk.Groups)
	}
}

func TestLoadAssignmentsIntoDirectory(t *testing.T) {
	path := writeAssignmentsFile(t, `
devices:
  laptop-001:
    user: alice@corp.example
    groups: [engineering]
`)

	assignments, err := LoadAssignments(path)
	if err != nil {
		t.Fatalf("LoadAssignments() error: %v", err)
	}

	directory := NewStaticDirectory(assignments)

	m, err := directory.ResolveScopes(context.Background(), "laptop-001")
	if err != nil {
		t.Fatalf("ResolveScopes() error: %v", err)
	}
	if m.User != "alice@corp.example" {
		t.Errorf("user = %q, want %q", m.User, "alice@corp.example")
	}

	// Unknown devices get empty memberships, not an error.
	m, err = directory.ResolveScopes(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("ResolveScopes(unknown) error: %v", err)
	}
	if m.User != "" || len(m.Groups) != 0 {
		t.Errorf("unknown device memberships = %+v, want empty", m)
	}
}

func TestLoadAssignmentsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "malformed yaml", content: "devices: [not a map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nonexistent.yaml")
			if !tt.missing {
				path = writeAssignmentsFile(t, tt.content)
			}

			if _, err := LoadAssignments(path); err == nil {
				t.Error("LoadAssignments() expected error, got nil")
			}
		})
	}
}
