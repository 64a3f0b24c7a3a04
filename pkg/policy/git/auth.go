package git

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// AuthConfig selects how the policy repository is authenticated.
type AuthConfig struct {
	// Type is "token", "ssh", or "none".
	Type string `yaml:"type"`

	// Token is a personal access token for HTTPS remotes.
	Token string `yaml:"token,omitempty"`

	// SSHKeyPath and SSHKeyPassphrase configure key-based auth.
	SSHKeyPath       string `yaml:"ssh_key_path,omitempty"`
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase,omitempty"`
}

// AuthProvider produces git transport credentials.
type AuthProvider interface {
	// GetAuth returns the transport authentication method.
	GetAuth() (transport.AuthMethod, error)

	// Type returns the auth type for logging.
	Type() string
}

// TokenAuth authenticates HTTPS remotes with a personal access token.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates a token-based auth provider.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// GetAuth returns HTTP basic auth with the token as password.
func (a *TokenAuth) GetAuth() (transport.AuthMethod, error) {
	if a.token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}
	return &http.BasicAuth{
		Username: "git", // Can be anything for token auth
		Password: a.token,
	}, nil
}

// Type returns the authentication type.
func (a *TokenAuth) Type() string { return "token" }

// SSHAuth authenticates with an SSH private key.
type SSHAuth struct {
	keyPath    string
	passphrase string
}

// NewSSHAuth creates an SSH key auth provider. passphrase may be empty
// for unencrypted keys.
func NewSSHAuth(keyPath, passphrase string) *SSHAuth {
	return &SSHAuth{keyPath: keyPath, passphrase: passphrase}
}

// GetAuth loads the private key and returns public key auth.
func (a *SSHAuth) GetAuth() (transport.AuthMethod, error) {
	if a.keyPath == "" {
		return nil, fmt.Errorf("ssh key path cannot be empty")
	}

	info, err := os.Stat(a.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	auth, err := ssh.NewPublicKeysFromFile("git", a.keyPath, a.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return auth, nil
}

// Type returns the authentication type.
func (a *SSHAuth) Type() string { return "ssh" }

// NoAuth accesses public repositories without credentials.
type NoAuth struct{}

// NewNoAuth creates a no-auth provider.
func NewNoAuth() *NoAuth { return &NoAuth{} }

// GetAuth returns nil authentication.
func (a *NoAuth) GetAuth() (transport.AuthMethod, error) { return nil, nil }

// Type returns the authentication type.
func (a *NoAuth) Type() string { return "none" }

// NewAuthProvider creates the auth provider matching the configuration.
func NewAuthProvider(cfg *AuthConfig) (AuthProvider, error) {
	if cfg == nil {
		return NewNoAuth(), nil
	}

	switch cfg.Type {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires non-empty token")
		}
		return NewTokenAuth(cfg.Token), nil

	case "ssh":
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires ssh_key_path")
		}
		return NewSSHAuth(cfg.SSHKeyPath, cfg.SSHKeyPassphrase), nil

	case "none", "":
		return NewNoAuth(), nil

	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}
