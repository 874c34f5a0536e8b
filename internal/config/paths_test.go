package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsWithHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENTBRIDGE_HOME", dir)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join(dir, "logs"), p.Logs)
	assert.Equal(t, filepath.Join(dir, "data"), p.Data)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENTBRIDGE_HOME", filepath.Join(dir, "nested"))

	p, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirs())

	assert.DirExists(t, p.Base)
	assert.DirExists(t, p.Logs)
	assert.DirExists(t, p.Data)
}
