// Package git provides a GitOps policy source: policy YAML lives in a
// Git repository, the engine clones it locally and polls for new commits,
// and the registry is reloaded when policy files change. A failed reload
// keeps the last-known-good policy set active.
package git
