package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Engine.Steps)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.MinDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Engine.MaxDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.PausePoll)
	assert.Equal(t, 100*time.Millisecond, cfg.Consumer.Interval)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  steps: 20
  min_delay: 1ms
  max_delay: 5ms
  failure_rate: 0.25
  seed: 42
consumer:
  interval: 250ms
log:
  level: debug
store:
  driver: none
port: "9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Engine.Steps)
	assert.Equal(t, time.Millisecond, cfg.Engine.MinDelay)
	assert.Equal(t, 5*time.Millisecond, cfg.Engine.MaxDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.PausePoll)
	assert.InDelta(t, 0.25, cfg.Engine.FailureRate, 1e-9)
	assert.Equal(t, uint64(42), cfg.Engine.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Consumer.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DriverNone, cfg.Store.Driver)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "engine:\n  steps: 20\n")
	t.Setenv("GODL_ENGINE_STEPS", "7")
	t.Setenv("GODL_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.Steps)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"steps":        "engine:\n  steps: 0\n",
		"delay order":  "engine:\n  min_delay: 10ms\n  max_delay: 1ms\n",
		"failure rate": "engine:\n  failure_rate: 1.5\n",
		"driver":       "store:\n  driver: mongo\n",
		"postgres dsn": "store:\n  driver: postgres\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Engine.Steps = 33
	cfg.Engine.MaxDelay = 750 * time.Millisecond
	cfg.Store.Driver = DriverNone

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))
	path := writeConfig(t, buf.String())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	err := WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteDefault(path, true))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
