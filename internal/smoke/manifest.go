package smoke

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is one HTTP request to replay against the service.
type Fixture struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"`
}

// Manifest is an ordered list of fixtures. Fixtures run in the order
// they appear.
type Manifest struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

var validMethods = map[string]struct{}{
	"GET":     {},
	"HEAD":    {},
	"POST":    {},
	"PUT":     {},
	"PATCH":   {},
	"DELETE":  {},
	"OPTIONS": {},
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
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

// Validate checks that every fixture names a known HTTP method and an
// absolute request path.
func (m *Manifest) Validate() error {
	if len(m.Fixtures) == 0 {
		return fmt.Errorf("manifest contains no fixtures")
	}

	for i, f := range m.Fixtures {
		if _, ok := validMethods[strings.ToUpper(f.Method)]; !ok {
			return fmt.Errorf("fixture %d (%s): invalid HTTP method %q", i, f.Name, f.Method)
		}
		if !strings.HasPrefix(f.Path, "/") {
			return fmt.Errorf("fixture %d (%s): path must start with /, got %q", i, f.Name, f.Path)
		}
	}

	return nil
}
