package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PLANTDOC_SERVICE_URL", "")
	t.Setenv("PLANTDOC_HOME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFilename))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Service.BaseURL, cfg.Service.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.GetSubmitTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, time.Duration(0), cfg.GetCacheMaxAge())
	assert.Equal(t, 7, cfg.Server.TrialDays)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFilename)
	yml := `service:
  base_url: http://diagnose.example
  submit_timeout: 5s
client:
  home: /tmp/pd
  parallel: 4
  cache_max_age: 10m
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("PLANTDOC_SERVICE_URL", "")
	t.Setenv("PLANTDOC_HOME", "")
	t.Setenv("PLANTDOC_TOKEN", "tok-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://diagnose.example", cfg.Service.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.GetSubmitTimeout())
	assert.Equal(t, "/tmp/pd", cfg.Client.Home)
	assert.Equal(t, 4, cfg.Client.Parallel)
	assert.Equal(t, 10*time.Minute, cfg.GetCacheMaxAge())
	assert.Equal(t, "tok-env", cfg.Service.Token)
	assert.Equal(t, "debug", cfg.LoggingOptions().Level)
	assert.Equal(t, "json", cfg.LoggingOptions().Format)
	// untouched sections keep defaults
	assert.Equal(t, "30s", cfg.Service.RequestTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	const key = "PLANTDOC_LISTEN"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=:9999\n"), 0o600))

	cfg, err := Load(filepath.Join(dir, ConfigFilename))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Listen)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("service: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFilename)
	t.Setenv("PLANTDOC_SERVICE_URL", "")
	t.Setenv("PLANTDOC_TOKEN", "")
	t.Setenv("PLANTDOC_HOME", "")

	cfg := DefaultConfig()
	cfg.Service.BaseURL = "http://saved.example"
	cfg.Client.Home = "/srv/plantdoc"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example", got.Service.BaseURL)
	assert.Equal(t, "/srv/plantdoc", got.Client.Home)
}

func TestGetters_FallBackOnGarbage(t *testing.T) {
	cfg := &Config{Service: ServiceConfig{SubmitTimeout: "soon", RequestTimeout: ""}}
	assert.Equal(t, 60*time.Second, cfg.GetSubmitTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetRequestTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLANTDOC_SERVICE_URL", "http://env.example")
	t.Setenv("PLANTDOC_HOME", "/env/home")
	t.Setenv("PLANTDOC_LOG_LEVEL", "error")
	t.Setenv("PLANTDOC_MONTHLY_LIMIT", "12")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, "http://env.example", cfg.Service.BaseURL)
	assert.Equal(t, "/env/home", cfg.Client.Home)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 12, cfg.Server.MonthlyLimit)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Client.Parallel = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Service.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
