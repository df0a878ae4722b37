package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirsHonourOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv(ConfigDirEnv, root)

	configDir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, root, configDir)

	cacheDir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cache"), cacheDir)

	stateDir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "state"), stateDir)

	for _, dir := range []string{cacheDir, stateDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestResolveWithoutOverride(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")

	assert.Equal(t, filepath.Join("/base", appName), resolve("/base", "cache"))
}
