// Package store loads policy definitions from YAML files and serves them
// to the resolver through an in-memory registry. A file watcher reloads
// the registry when policy files change on disk, debounced so editor save
// storms trigger a single reload.
//
// The registry snapshot semantics keep evaluation deterministic: an
// in-flight evaluation sees the policy set that was current when it asked,
// never a half-applied reload.
package store
