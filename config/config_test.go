package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "http://localhost:5010", cfg.Statistics.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Statistics.Timeout)
	assert.Equal(t, 30, cfg.Statistics.DefaultTimeRange)
	assert.Equal(t, "stats_session", cfg.Dashboard.SessionCookie)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
logger:
  level: debug
  encoding: console
statistics:
  base_url: http://stats.internal:5010
  timeout: 3s
  max_request_per_min: 120
dashboard:
  time_zone: Asia/Jakarta
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	t.Setenv("API_PORT", "9090")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, "http://stats.internal:5010", cfg.Statistics.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Statistics.Timeout)
	assert.Equal(t, 120, cfg.Statistics.MaxRequestPerMin)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.DisplayLocation().String())
}

func TestLoad_RejectsNonPositiveRequestRate(t *testing.T) {
	t.Setenv("STATISTICS_MAX_REQUEST_PER_MIN", "0")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestDisplayLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{Dashboard: Dashboard{TimeZone: "Not/AZone"}}
	assert.Equal(t, time.UTC, cfg.DisplayLocation())
}
