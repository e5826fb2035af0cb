package runtimeenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv makes the test restore EnvRoot and EnvTmpDir when it ends.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvRoot, "")
	t.Setenv(EnvTmpDir, "")
}

func TestSetup(t *testing.T) {
	t.Run("ExtractsAssetsAndExportsEnv", func(t *testing.T) {
		isolateEnv(t)
		dir := filepath.Join(t.TempDir(), "runtime")

		env, err := setup(Config{Dir: dir})
		require.NoError(t, err)

		assert.Equal(t, dir, env.Root)
		assert.Equal(t, filepath.Join(dir, "tmp"), env.TmpDir)
		assert.Equal(t, []string{SettingsFile}, env.Extracted)
		assert.FileExists(t, filepath.Join(dir, SettingsFile))
		assert.DirExists(t, env.TmpDir)
		assert.Equal(t, dir, os.Getenv(EnvRoot))
		assert.Equal(t, env.TmpDir, os.Getenv(EnvTmpDir))
	})

	t.Run("KeepsExistingAssets", func(t *testing.T) {
		isolateEnv(t)
		dir := t.TempDir()
		custom := []byte("busy_timeout: 10\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), custom, 0600))

		env, err := setup(Config{Dir: dir})
		require.NoError(t, err)
		assert.Empty(t, env.Extracted)

		b, err := os.ReadFile(filepath.Join(dir, SettingsFile))
		require.NoError(t, err)
		assert.Equal(t, custom, b)
	})

	t.Run("ForceOverwritesAssets", func(t *testing.T) {
		isolateEnv(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("busy_timeout: 10\n"), 0600))

		env, err := setup(Config{Dir: dir, Force: true})
		require.NoError(t, err)
		assert.Equal(t, []string{SettingsFile}, env.Extracted)

		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, 5000, settings.BusyTimeout)
	})

	t.Run("RelativeDirIsMadeAbsolute", func(t *testing.T) {
		isolateEnv(t)
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		env, err := setup(Config{Dir: "rt"})
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(env.Root))
	})

	t.Run("UnwritableDirFails", func(t *testing.T) {
		isolateEnv(t)
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0600))

		_, err := setup(Config{Dir: filepath.Join(parent, "runtime")})
		assert.Error(t, err)
	})

	t.Run("RunsOnce", func(t *testing.T) {
		isolateEnv(t)
		first, err := Setup(Config{Dir: t.TempDir()})
		require.NoError(t, err)

		second, err := Setup(Config{Dir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("BundledDefaults", func(t *testing.T) {
		isolateEnv(t)
		dir := t.TempDir()
		_, err := setup(Config{Dir: dir})
		require.NoError(t, err)

		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, 5000, settings.BusyTimeout)
		assert.Contains(t, settings.Pragmas, "PRAGMA foreign_keys = true;")
	})

	t.Run("MissingBusyTimeoutUsesDefault", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("pragmas: []\n"), 0600))

		settings, err := LoadSettings(dir)
		require.NoError(t, err)
		assert.Equal(t, defaultBusyTimeout, settings.BusyTimeout)
		assert.Empty(t, settings.Pragmas)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadSettings(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("pragmas: [unclosed\n"), 0600))

		_, err := LoadSettings(dir)
		assert.Error(t, err)
	})

	t.Run("NegativeBusyTimeout", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("busy_timeout: -1\n"), 0600))

		_, err := LoadSettings(dir)
		assert.Error(t, err)
	})
}
