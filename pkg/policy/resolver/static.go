package resolver

import (
	"context"
	"sync"
)

// StaticDirectory is a ScopeDirectory backed by an in-memory assignment
// table, typically loaded from configuration. It stands in for the
// externally owned directory system in single-binary deployments and tests.
// Safe for concurrent use.
type StaticDirectory struct {
	mu          sync.RWMutex
	assignments map[string]Memberships
}

// NewStaticDirectory creates a directory over the given device assignments.
func NewStaticDirectory(assignments map[string]Memberships) *StaticDirectory {
	table := make(map[string]Memberships, len(assignments))
	for id, m := range assignments {
		table[id] = m
	}
	return &StaticDirectory{assignments: table}
}

// ResolveScopes returns the device's memberships. Unknown devices get empty
// memberships, which still match all-devices policies.
func (d *StaticDirectory) ResolveScopes(ctx context.Context, deviceID string) (Memberships, error) {
	if err := ctx.Err(); err != nil {
		return Memberships{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.assignments[deviceID], nil
}

// Assign replaces the memberships of a device.
func (d *StaticDirectory) Assign(deviceID string, m Memberships) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assignments[deviceID] = m
}
