package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylehoskins/deploykit/internal/errors"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestValidateAllComplete(t *testing.T) {
	dir := t.TempDir()
	files := []string{"deploy/pull.sh", ".github/workflows/deploy.yml"}
	for _, f := range files {
		writeFile(t, dir, f, "data")
	}

	assert.NoError(t, NewLocal(dir).ValidateAll(files))
}

func TestValidateAllMissingDirectory(t *testing.T) {
	err := NewLocal(filepath.Join(t.TempDir(), "absent")).ValidateAll([]string{"deploy/pull.sh"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSource))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateAllListsEveryMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy/pull.sh", "data")

	files := []string{
		"deploy/pull.sh",
		"deploy/setup-keys.sh",
		".github/workflows/deploy.yml",
	}
	err := NewLocal(dir).ValidateAll(files)
	require.Error(t, err)

	// Every missing path is reported, not just the first.
	assert.Contains(t, err.Error(), "deploy/setup-keys.sh")
	assert.Contains(t, err.Error(), ".github/workflows/deploy.yml")
	assert.NotContains(t, err.Error(), "deploy/pull.sh\n")
	assert.Contains(t, err.Error(), "2 required file(s)")
}

func TestValidateAllSourceIsAFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := NewLocal(file).ValidateAll([]string{"deploy/pull.sh"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLocalFetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy/pull.sh", "#!/bin/sh\nexec git pull\n")

	data, err := NewLocal(dir).Fetch(context.Background(), "deploy/pull.sh")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nexec git pull\n", string(data))
}

func TestLocalFetchMissingFile(t *testing.T) {
	_, err := NewLocal(t.TempDir()).Fetch(context.Background(), "deploy/pull.sh")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}
