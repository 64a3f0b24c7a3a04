// Package policy defines the compliance policy data model: named, versioned
// bundles of posture requirements plus the assignment scope describing which
// devices they bind.
//
// Policies are authored outside the engine (admin console, GitOps repo) and
// only read here. Version is a monotonic integer bumped on any requirement
// edit; it participates in the result cache key, so an edit invalidates
// exactly the cached results it should.
package policy
