package installer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylehoskins/deploykit/internal/manifest"
	"github.com/kylehoskins/deploykit/internal/ui"
)

func housekeepingInstaller(t *testing.T) *Installer {
	t.Helper()
	m := manifest.Default()
	in := testInstaller(t, seededSource(t, m), false)
	_, err := in.Run(context.Background())
	require.NoError(t, err)
	return in
}

func TestMarkExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	in := housekeepingInstaller(t)
	errs := in.MarkExecutables()
	assert.Empty(t, errs)

	for _, f := range in.Manifest.Executables {
		fi, err := os.Stat(filepath.Join(in.Target, f))
		require.NoError(t, err)
		assert.NotZero(t, fi.Mode()&0o111, "%s should be executable", f)
	}

	// Non-script deliverables stay non-executable.
	fi, err := os.Stat(filepath.Join(in.Target, "deploy/README.md"))
	require.NoError(t, err)
	assert.Zero(t, fi.Mode()&0o111)
}

func TestMarkExecutablesMissingFileIsWarningOnly(t *testing.T) {
	m := manifest.Default()
	in := New(t.TempDir(), seededSource(t, m), m, false, ui.NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, false, false))

	// Nothing installed, so every chmod fails; the step reports but never panics.
	errs := in.MarkExecutables()
	assert.Len(t, errs, len(m.Executables))
}

func TestGitignoreCreatedWhenAbsent(t *testing.T) {
	in := housekeepingInstaller(t)

	added, err := in.UpdateGitignore()
	require.NoError(t, err)
	assert.Equal(t, in.Manifest.Gitignore, added)

	content, err := os.ReadFile(filepath.Join(in.Target, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "deploy/deploy.conf\ndeploy/deploy.log\n", string(content))
}

func TestGitignoreAppendsOnlyMissingLines(t *testing.T) {
	in := housekeepingInstaller(t)
	path := filepath.Join(in.Target, ".gitignore")
	existing := "node_modules/\ndeploy/deploy.conf\n*.swp\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	added, err := in.UpdateGitignore()
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy/deploy.log"}, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// Existing lines keep their order; the one missing entry lands at the end.
	assert.Equal(t, existing+"deploy/deploy.log\n", string(content))
}

func TestGitignoreIdempotent(t *testing.T) {
	in := housekeepingInstaller(t)

	_, err := in.UpdateGitignore()
	require.NoError(t, err)
	before, err := os.ReadFile(filepath.Join(in.Target, ".gitignore"))
	require.NoError(t, err)

	added, err := in.UpdateGitignore()
	require.NoError(t, err)
	assert.Empty(t, added)

	after, err := os.ReadFile(filepath.Join(in.Target, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestGitignoreHandlesMissingTrailingNewline(t *testing.T) {
	in := housekeepingInstaller(t)
	path := filepath.Join(in.Target, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("vendor/"), 0o644)) // no trailing newline

	_, err := in.UpdateGitignore()
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Equal(t, []string{"vendor/", "deploy/deploy.conf", "deploy/deploy.log"}, lines)
}
