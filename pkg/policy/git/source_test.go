package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"northgate/sentinel/pkg/policy/store"
)

const testPolicyYAML = `
id: pol-baseline
name: Default Security Policy
version: %VERSION%
status: Active
applies_to:
  kind: all-devices
requirements:
  device_security:
    disk_encryption: true
`

// initPolicyRepo creates a local git repository with one policy file and
// returns its path and worktree.
func initPolicyRepo(t *testing.T) (string, *gogit.Worktree) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() failed: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() failed: %v", err)
	}

	commitPolicy(t, dir, worktree, "1", "add baseline policy")
	return dir, worktree
}

func commitPolicy(t *testing.T, dir string, worktree *gogit.Worktree, version, message string) {
	t.Helper()

	content := []byte(strings.ReplaceAll(testPolicyYAML, "%VERSION%", version))
	if err := os.WriteFile(filepath.Join(dir, "baseline.yaml"), content, 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := worktree.Add("baseline.yaml"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	_, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Fleet Admin",
			Email: "admin@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
}

func TestNewRepository_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"missing url", &Config{Branch: "main"}},
		{"missing branch", &Config{URL: "https://example.com/policies.git"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRepository(tt.cfg); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestNewAuthProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *AuthConfig
		wantType string
		wantErr  bool
	}{
		{"nil config", nil, "none", false},
		{"none", &AuthConfig{Type: "none"}, "none", false},
		{"token", &AuthConfig{Type: "token", Token: "secret"}, "token", false},
		{"token without token", &AuthConfig{Type: "token"}, "", true},
		{"ssh without key", &AuthConfig{Type: "ssh"}, "", true},
		{"unknown", &AuthConfig{Type: "kerberos"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewAuthProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAuthProvider() failed: %v", err)
			}
			if provider.Type() != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, provider.Type())
			}
		})
	}
}

func TestSource_InitialLoadAndReload(t *testing.T) {
	repoDir, worktree := initPolicyRepo(t)

	registry := store.NewRegistry()
	source, err := NewSource(&Config{
		URL:       repoDir,
		Branch:    "master",
		LocalPath: filepath.Join(t.TempDir(), "clone"),
	}, registry, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewSource() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer source.Stop()

	if registry.Count() != 1 {
		t.Fatalf("Expected 1 policy after initial load, got %d", registry.Count())
	}
	p, ok := registry.Get("pol-baseline")
	if !ok || p.Version != 1 {
		t.Fatalf("Unexpected initial policy: %+v", p)
	}

	// Push a version bump and wait for the poller to pick it up.
	commitPolicy(t, repoDir, worktree, "2", "bump baseline policy")

	deadline := time.After(5 * time.Second)
	for {
		if p, ok := registry.Get("pol-baseline"); ok && p.Version == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for policy reload")
		case <-time.After(50 * time.Millisecond):
		}
	}

	commit, err := source.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit() failed: %v", err)
	}
	if commit.Message != "bump baseline policy\n" && commit.Message != "bump baseline policy" {
		t.Errorf("Unexpected HEAD message %q", commit.Message)
	}
}
