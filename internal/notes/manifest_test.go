package notes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yml")
	content := `build:
  name: search-engine
  version: 2.11.0
components:
  - name: ml-commons
    repository: https://github.com/example-org/ml-commons.git
    ref: "2.x"
  - name: job-scheduler
    repository: https://github.com/example-org/job-scheduler.git
    ref: "2.x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "search-engine", m.Build.Name)
	assert.Equal(t, "2.11.0", m.Build.Version)
	require.Len(t, m.Components, 2)
	assert.Equal(t, "ml-commons", m.Components[0].Name)
	assert.Equal(t, "https://github.com/example-org/ml-commons.git", m.Components[0].Repository)
	assert.Equal(t, "2.x", m.Components[0].Ref)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest("/nonexistent/manifest.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestBuild_FullVersion(t *testing.T) {
	assert.Equal(t, "2.11.0", Build{Version: "2.11.0"}.FullVersion())
	assert.Equal(t, "3.0.0-beta1", Build{Version: "3.0.0", Qualifier: "beta1"}.FullVersion())
}

func TestManifest_Validate(t *testing.T) {
	component := Component{
		Name:       "ml-commons",
		Repository: "https://github.com/example-org/ml-commons.git",
		Ref:        "2.x",
	}

	tests := []struct {
		name     string
		manifest Manifest
		wantErr  string
	}{
		{
			name: "valid",
			manifest: Manifest{
				Build:      Build{Version: "2.11.0"},
				Components: []Component{component},
			},
		},
		{
			name: "missing build version",
			manifest: Manifest{
				Components: []Component{component},
			},
			wantErr: "build version",
		},
		{
			name: "no components",
			manifest: Manifest{
				Build: Build{Version: "2.11.0"},
			},
			wantErr: "no components",
		},
		{
			name: "component missing repository",
			manifest: Manifest{
				Build:      Build{Version: "2.11.0"},
				Components: []Component{{Name: "ml-commons", Ref: "2.x"}},
			},
			wantErr: "missing a repository",
		},
		{
			name: "component missing ref",
			manifest: Manifest{
				Build:      Build{Version: "2.11.0"},
				Components: []Component{{Name: "ml-commons", Repository: "url"}},
			},
			wantErr: "missing a ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
