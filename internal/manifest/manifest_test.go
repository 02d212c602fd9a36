package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParses(t *testing.T) {
	m := Default()
	require.NotNil(t, m)

	// The deliverable set is fixed: one workflow file, four deploy files.
	assert.Len(t, m.WorkflowFiles, 1)
	assert.Len(t, m.DeployFiles, 4)
	assert.Len(t, m.Files(), 5)

	assert.Equal(t, []string{".github/workflows", "deploy"}, m.Directories)
	assert.Len(t, m.Executables, 2)
	assert.Len(t, m.Gitignore, 2)
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestFilesOrder(t *testing.T) {
	m := Default()
	files := m.Files()

	// Workflow files come first.
	assert.Equal(t, ".github/workflows/deploy.yml", files[0])
	assert.Equal(t, "deploy/pull.sh", files[1])
}

func TestIsExecutable(t *testing.T) {
	m := Default()

	assert.True(t, m.IsExecutable("deploy/pull.sh"))
	assert.True(t, m.IsExecutable("deploy/setup-keys.sh"))
	assert.False(t, m.IsExecutable("deploy/README.md"))
	assert.False(t, m.IsExecutable(".github/workflows/deploy.yml"))
	assert.False(t, m.IsExecutable("no/such/file"))
}

func TestEveryExecutableIsInstalled(t *testing.T) {
	m := Default()
	files := make(map[string]struct{})
	for _, f := range m.Files() {
		files[f] = struct{}{}
	}
	for _, e := range m.Executables {
		_, ok := files[e]
		assert.True(t, ok, "executable %s must be an installed file", e)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "directories: [unclosed"},
		{"no files", "directories:\n  - deploy\n"},
		{"no directories", "deploy_files:\n  - deploy/pull.sh\n"},
		{"executable not installed", `
directories:
  - deploy
deploy_files:
  - deploy/pull.sh
executables:
  - deploy/other.sh
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseValid(t *testing.T) {
	m, err := Parse([]byte(`
directories:
  - deploy
deploy_files:
  - deploy/pull.sh
executables:
  - deploy/pull.sh
gitignore:
  - deploy/deploy.conf
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy/pull.sh"}, m.Files())
	assert.True(t, m.IsExecutable("deploy/pull.sh"))
}
