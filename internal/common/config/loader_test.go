package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  name: medscreen-gateway
  environment: test
database:
  postgres:
    host: localhost
    port: 5432
    user: gateway
    database: medscreen
    ssl_mode: require
conditions:
  pcos:
    enabled: true
    base_url: http://localhost:5000
  anemia:
    enabled: true
    base_url: http://localhost:5003
    timeout: 10000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	// The YAML ssl_mode key must bind, not fall through to the default.
	assert.Equal(t, "require", cfg.Database.Postgres.SSLMode)

	// Omitted paths default to the per-condition predict route.
	pcos := GetConditionConfig(cfg, "pcos")
	assert.Equal(t, "/predict/pcos", pcos.Path)
	assert.Equal(t, "http://localhost:5000/predict/pcos", pcos.Endpoint())
	assert.Equal(t, 30000, pcos.Timeout)

	anemia := GetConditionConfig(cfg, "anemia")
	assert.Equal(t, "http://localhost:5003/predict/anemia", anemia.Endpoint())
	assert.Equal(t, 10000, anemia.Timeout)

	// Server and logging defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadFromFile_EnabledConditionNeedsBaseURL(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    user: gateway
    database: medscreen
conditions:
  thyroid:
    enabled: true
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conditions.thyroid.base_url")
}

func TestGetConditionConfig_UnknownDefaultsDisabled(t *testing.T) {
	cfg := &Config{}

	cond := GetConditionConfig(cfg, "diabetes")
	assert.False(t, cond.Enabled)
	assert.Equal(t, "/predict/diabetes", cond.Path)
}
