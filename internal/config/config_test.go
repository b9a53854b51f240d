package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "klondike.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := writeConfig(t, `
addr: "127.0.0.1:9000"
draw_mode: 3
auto_complete_interval: 80ms
`)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 3, cfg.DrawMode)
	assert.Equal(t, 80*time.Millisecond, cfg.AutoCompleteInterval)
	assert.Equal(t, Default().StuckCheckDelay, cfg.StuckCheckDelay, "unset values keep their default")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "draw_mode: [1"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "draw_mode: 2\nauto_complete_interval: 0s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draw_mode")
	assert.Contains(t, err.Error(), "auto_complete_interval")
}
