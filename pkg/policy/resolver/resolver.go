package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"northgate/sentinel/pkg/policy"
)

// Memberships describes a device's directory assignment: the user it is
// enrolled to and the groups that user or device belongs to.
type Memberships struct {
	User   string
	Groups []string
}

// ScopeDirectory is the externally owned assignment lookup. Implementations
// may cross a network boundary and must honor the context deadline.
type ScopeDirectory interface {
	// ResolveScopes returns the device's memberships. An unknown device is
	// not an error: it returns empty memberships and still matches
	// all-devices policies.
	ResolveScopes(ctx context.Context, deviceID string) (Memberships, error)
}

// Catalog supplies the policy definitions to resolve against, typically a
// registry snapshot that swaps atomically on reload.
type Catalog interface {
	// Policies returns the current policy set. The returned slice must not
	// be mutated by the resolver.
	Policies() []*policy.Definition
}

// Config contains resolver configuration.
type Config struct {
	// LookupTimeout bounds a single directory lookup.
	// Default: 2s.
	LookupTimeout time.Duration
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() *Config {
	return &Config{LookupTimeout: 2 * time.Second}
}

// Resolver resolves the ordered, deduplicated set of policies applicable to
// a device. It is safe for concurrent use.
type Resolver struct {
	directory ScopeDirectory
	catalog   Catalog
	config    *Config
	logger    *slog.Logger
}

// New creates a resolver over the given directory and policy catalog.
func New(directory ScopeDirectory, catalog Catalog, config *Config, logger *slog.Logger) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		directory: directory,
		catalog:   catalog,
		config:    config,
		logger:    logger.With("component", "policy.resolver"),
	}
}

// Resolve returns every policy whose scope selects the device, deduplicated
// by id and ordered highest-specificity-first (user > group > all-devices,
// then by id for a deterministic result). All lifecycle states are
// returned; filtering to Active is the engine's concern.
//
// A failed or timed-out directory lookup returns a *LookupError.
func (r *Resolver) Resolve(ctx context.Context, deviceID string) ([]*policy.Definition, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.config.LookupTimeout)
	defer cancel()

	memberships, err := r.directory.ResolveScopes(lookupCtx, deviceID)
	if err != nil {
		r.logger.Error("directory lookup failed", "device_id", deviceID, "error", err)
		return nil, &LookupError{DeviceID: deviceID, Cause: err}
	}

	type match struct {
		def         *policy.Definition
		specificity int
	}

	// Dedupe by id, keeping the most specific occurrence.
	matches := make(map[string]match)
	for _, def := range r.catalog.Policies() {
		spec, ok := scopeMatches(def.AppliesTo, memberships)
		if !ok {
			continue
		}
		if prev, seen := matches[def.ID]; seen && prev.specificity >= spec {
			continue
		}
		matches[def.ID] = match{def: def, specificity: spec}
	}

	ordered := make([]match, 0, len(matches))
	for _, m := range matches {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].specificity != ordered[j].specificity {
			return ordered[i].specificity > ordered[j].specificity
		}
		return ordered[i].def.ID < ordered[j].def.ID
	})

	result := make([]*policy.Definition, len(ordered))
	for i, m := range ordered {
		result[i] = m.def
	}

	r.logger.Debug("policies resolved",
		"device_id", deviceID,
		"policy_count", len(result),
	)
	return result, nil
}

// scopeMatches reports whether the scope selects a device with the given
// memberships, and at what specificity.
func scopeMatches(scope policy.Scope, m Memberships) (int, bool) {
	switch scope.Kind {
	case policy.ScopeAllDevices:
		return scope.Kind.Specificity(), true
	case policy.ScopeUser:
		if m.User != "" && strings.EqualFold(scope.Name, m.User) {
			return scope.Kind.Specificity(), true
		}
	case policy.ScopeGroup:
		for _, g := range m.Groups {
			if strings.EqualFold(scope.Name, g) {
				return scope.Kind.Specificity(), true
			}
		}
	}
	return 0, false
}
