package resolver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// assignmentsFile is the YAML document shape for a directory assignments
// file: device IDs mapped to their user and group memberships.
type assignmentsFile struct {
	Devices map[string]struct {
		User   string   `yaml:"user,omitempty"`
		Groups []string `yaml:"groups,omitempty"`
	} `yaml:"devices"`
}

// LoadAssignments reads a device assignments YAML file into a membership
// table suitable for NewStaticDirectory. The file maps device IDs to a
// user and a list of groups:
//
//	devices:
//	  laptop-001:
//	    user: alice@corp.example
//	    groups: [engineering, remote]
func LoadAssignments(path string) (map[string]Memberships, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments file: %w", err)
	}

	var doc assignmentsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse assignments file %s: %w", path, err)
	}

	assignments := make(map[string]Memberships, len(doc.Devices))
	for deviceID, entry := range doc.Devices {
		if deviceID == "" {
			return nil, fmt.Errorf("assignments file %s: empty device ID", path)
		}
		assignments[deviceID] = Memberships{
			User:   entry.User,
			Groups: entry.Groups,
		}
	}
	return assignments, nil
}
