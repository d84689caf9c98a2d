package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.True(t, cfg.Project.UseGitignore)
	assert.Equal(t, 1, cfg.Sync.Workers)
	assert.Equal(t, "codegraph.db", cfg.Storage.DBPath)

	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yamlSrc := `project:
  root: ./src
  exclude: ["*_test.go"]
  use_gitignore: false
sync:
  workers: 4
watch:
  debounce: 2s
`
	path := filepath.Join(dir, "codegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlSrc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./src", cfg.Project.Root)
	assert.Equal(t, []string{"*_test.go"}, cfg.Project.Exclude)
	assert.False(t, cfg.Project.UseGitignore)
	assert.Equal(t, 4, cfg.Sync.Workers)
	assert.Equal(t, "codegraph.db", cfg.Storage.DBPath)

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("CODEGRAPH_DB", "/tmp/other.db")
		t.Setenv("CODEGRAPH_WORKERS", "8")
		t.Setenv("CODEGRAPH_EXCLUDE", "gen/**, *.pb.go")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/other.db", cfg.Storage.DBPath)
		assert.Equal(t, 8, cfg.Sync.Workers)
		assert.Equal(t, []string{"gen/**", "*.pb.go"}, cfg.Project.Exclude)
	})

	t.Run("Invalid values", func(t *testing.T) {
		t.Setenv("CODEGRAPH_WORKERS", "many")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("Invalid debounce", func(t *testing.T) {
		t.Setenv("CODEGRAPH_DEBOUNCE", "soon")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "codegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
