package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configFileEnv, "")
	t.Setenv("REPOBROWSER_PAGE_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 300, cfg.MaxRepositories)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.RedirectUnmatched)
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9000"
page_size: 25
redirect_unmatched: true
cors_origins:
  - https://a.example
`), 0o644))

	t.Setenv(configFileEnv, path)
	t.Setenv("REPOBROWSER_PAGE_SIZE", "5")
	t.Setenv("REPOBROWSER_CACHE_TTL", "90s")
	t.Setenv("REPOBROWSER_GITHUB_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.PageSize)
	assert.True(t, cfg.RedirectUnmatched)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "secret", cfg.GitHubToken)
	assert.Equal(t, []string{"https://a.example"}, cfg.CORSOrigins)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(configFileEnv, "")
	t.Setenv("REPOBROWSER_LISTEN_ADDR", "")
	require.NoError(t, os.Unsetenv("REPOBROWSER_LISTEN_ADDR"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REPOBROWSER_LISTEN_ADDR=:7070\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configFileEnv, "does-not-exist.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configFileEnv, "")
	t.Setenv("REPOBROWSER_PAGE_SIZE", "-3")
	t.Setenv("REPOBROWSER_REDIRECT_UNMATCHED", "maybe")
	t.Setenv("REPOBROWSER_CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
	assert.False(t, cfg.RedirectUnmatched)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
