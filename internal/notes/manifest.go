package notes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Build identifies the release a manifest describes.
type Build struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Qualifier string `yaml:"qualifier,omitempty"`
}

// FullVersion returns the version with the qualifier appended, the form
// used in release notes filenames.
func (b Build) FullVersion() string {
	if b.Qualifier != "" {
		return b.Version + "-" + b.Qualifier
	}
	return b.Version
}

// Component is one repository participating in the release.
type Component struct {
	Name       string `yaml:"name"`
	Repository string `yaml:"repository"`
	Ref        string `yaml:"ref"`
}

// Manifest is the component manifest for a release.
type Manifest struct {
	Build      Build       `yaml:"build"`
	Components []Component `yaml:"components"`
}

// LoadManifest reads and validates a component manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the manifest names a version and that every
// component has a name, repository and ref.
func (m *Manifest) Validate() error {
	if m.Build.Version == "" {
		return fmt.Errorf("manifest is missing a build version")
	}
	if len(m.Components) == 0 {
		return fmt.Errorf("manifest has no components")
	}
	for i, c := range m.Components {
		if c.Name == "" {
			return fmt.Errorf("component %d is missing a name", i)
		}
		if c.Repository == "" {
			return fmt.Errorf("component %q is missing a repository", c.Name)
		}
		if c.Ref == "" {
			return fmt.Errorf("component %q is missing a ref", c.Name)
		}
	}
	return nil
}
