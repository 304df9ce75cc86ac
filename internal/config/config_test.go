package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServer(t *testing.T) {
	cfg := DefaultServer()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 100, cfg.MaxFastWorkers)
	assert.Equal(t, 4, cfg.MaxSlowWorkers)
	assert.Equal(t, 24*time.Hour, cfg.GameTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadServerCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := `
host: 0.0.0.0
port: 9090
max_slow_workers: 2
game_ttl: 1h
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadServer(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2, cfg.MaxSlowWorkers)
	assert.Equal(t, time.Hour, cfg.GameTTL)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 100, cfg.MaxFastWorkers)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoadServerMissingCustomPath(t *testing.T) {
	cfg, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	// Defaults still come back so the caller can decide to proceed.
	assert.Equal(t, DefaultServer(), cfg)
}

func TestLoadServerBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("read_timeout: soon"), 0o644))

	_, err := LoadServer(path)
	assert.ErrorContains(t, err, "read_timeout")
}

func TestLoadServerMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o644))

	_, err := LoadServer(path)
	assert.Error(t, err)
}
