package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"northgate/sentinel/pkg/policy"
)

// LoaderConfig contains configuration for the policy file loader.
type LoaderConfig struct {
	// MaxFileSize is the maximum policy file size in bytes.
	// Default: 1 MiB.
	MaxFileSize int64

	// AllowedExtensions lists the file extensions treated as policy files.
	AllowedExtensions []string

	// SkipHidden skips dotfiles and dot-directories during directory walks.
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       1 << 20,
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// Loader reads policy definitions from YAML files.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a policy loader.
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// policyFile is the YAML document shape: either a single policy or a list
// under the "policies" key.
type policyFile struct {
	Policies []*policy.Definition `yaml:"policies"`
}

// LoadFromFile loads the policy definitions in a single YAML file. Every
// definition is structurally validated before it is returned.
func (l *Loader) LoadFromFile(path string) ([]*policy.Definition, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if fileInfo.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	policies, err := parsePolicies(data)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "YAML parsing failed", Cause: err}
	}

	for _, p := range policies {
		if err := policy.Validate(p); err != nil {
			return nil, &LoadError{FilePath: path, Message: "invalid policy definition", Cause: err}
		}
	}

	return policies, nil
}

// parsePolicies accepts a bare definition document or a "policies" list.
func parsePolicies(data []byte) ([]*policy.Definition, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Policies) > 0 {
		return file.Policies, nil
	}

	var single policy.Definition
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	if single.ID == "" {
		return nil, fmt.Errorf("document contains neither a policy nor a policies list")
	}
	return []*policy.Definition{&single}, nil
}

// LoadFromDirectory loads every policy file under the directory
// recursively. A partial load returns the loaded policies together with an
// *ErrorList; a load in which every file failed returns only the error.
func (l *Loader) LoadFromDirectory(dir string) ([]*policy.Definition, error) {
	fileInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}
	if !fileInfo.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	files, err := l.collectPolicyFiles(dir)
	if err != nil {
		return nil, err
	}

	var policies []*policy.Definition
	errList := &ErrorList{}

	for _, path := range files {
		loaded, err := l.LoadFromFile(path)
		if err != nil {
			errList.Add(err)
			continue
		}
		policies = append(policies, loaded...)
	}

	if len(policies) == 0 && errList.HasErrors() {
		return nil, errList
	}
	if errList.HasErrors() {
		return policies, errList
	}
	return policies, nil
}

// collectPolicyFiles walks the directory tree and returns every file with
// an allowed extension.
func (l *Loader) collectPolicyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if l.hasValidExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range l.config.AllowedExtensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
