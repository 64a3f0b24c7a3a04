package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"northgate/sentinel/pkg/policy"
)

// Registry holds the current policy set in memory. Reloads swap the whole
// set atomically; readers always see a consistent snapshot.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]*policy.Definition
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[string]*policy.Definition),
		logger:   slog.Default().With("component", "policy.registry"),
	}
}

// Replace swaps the registry contents with the given set. Duplicate IDs
// are rejected and leave the previous set in place.
func (r *Registry) Replace(policies []*policy.Definition) error {
	next := make(map[string]*policy.Definition, len(policies))
	for _, p := range policies {
		if _, dup := next[p.ID]; dup {
			return fmt.Errorf("duplicate policy id %q", p.ID)
		}
		next[p.ID] = p
	}

	r.mu.Lock()
	r.policies = next
	r.mu.Unlock()

	r.logger.Info("policy set replaced", "policy_count", len(next))
	return nil
}

// Policies returns a snapshot of every policy, ordered by ID. It satisfies
// the resolver's Catalog interface.
func (r *Registry) Policies() []*policy.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*policy.Definition, 0, len(r.policies))
	for _, p := range r.policies {
		snapshot = append(snapshot, p)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].ID < snapshot[j].ID
	})
	return snapshot
}

// Get returns the policy with the given ID.
func (r *Registry) Get(id string) (*policy.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[id]
	return p, ok
}

// Count returns the number of registered policies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.policies)
}

// Fingerprint returns the content hash of the current Active policy set.
func (r *Registry) Fingerprint() string {
	all := r.Policies()
	active := all[:0]
	for _, p := range all {
		if p.Active() {
			active = append(active, p)
		}
	}
	return policy.SetFingerprint(active)
}
