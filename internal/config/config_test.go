package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, 168, cfg.Scan.FullHoursBack)
	assert.Equal(t, 8760, cfg.Scan.TargetHoursBack)
	assert.Equal(t, 2*time.Second, cfg.Scan.SettleDelay)
	assert.Equal(t, domain.DefaultFilter(), cfg.Filter())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, `
server:
  url: http://localhost:3000/api
scan:
  full_hours_back: 24
  settle_delay: 500ms
  schedule: "0 */6 * * *"
ui:
  default_view: all
  default_priority: HIGH
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.Server.URL)
	assert.Equal(t, 24, cfg.Scan.FullHoursBack)
	assert.Equal(t, 8760, cfg.Scan.TargetHoursBack, "unset keys keep defaults")
	assert.Equal(t, 500*time.Millisecond, cfg.Scan.SettleDelay)
	assert.Equal(t, "0 */6 * * *", cfg.Scan.Schedule)
	assert.Equal(t, domain.Filter{View: domain.ViewAll, Priority: domain.PriorityHigh}, cfg.Filter())
	require.NoError(t, cfg.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCKETWATCH_SERVER_TOKEN", "from-env")
	t.Setenv("DOCKETWATCH_SCAN_TARGET_HOURS_BACK", "720")

	cfg, err := LoadConfigFile(writeFile(t, "server:\n  url: https://example.test/api\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.Token)
	assert.Equal(t, 720, cfg.Scan.TargetHoursBack)
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Token = "abc"
	cfg.Scan.SettleDelay = 3 * time.Second
	cfg.Scan.Schedule = "@hourly"
	cfg.Cache.Dir = ""

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveConfigFile(cfg, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.Server.URL = "/api" }},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://example.test/api" }},
		{"negative full window", func(c *Config) { c.Scan.FullHoursBack = -1 }},
		{"negative target window", func(c *Config) { c.Scan.TargetHoursBack = -1 }},
		{"negative settle delay", func(c *Config) { c.Scan.SettleDelay = -time.Second }},
		{"bad schedule", func(c *Config) { c.Scan.Schedule = "every tuesday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
