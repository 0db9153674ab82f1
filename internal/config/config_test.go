package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// No config.yaml in a fresh temp dir
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, 60, cfg.API.TimeoutSecs)
	assert.Equal(t, time.Minute, cfg.API.Timeout())
	assert.InDelta(t, 2.0, cfg.API.RatePerSec, 0.001)
	assert.Equal(t, 1, cfg.API.Burst)
	assert.Equal(t, "flipforge_lender_report_v0.pdf", cfg.Export.LenderReportFilename)
	assert.Equal(t, 1200*time.Millisecond, cfg.Feedback.CopiedTTL())
	assert.Equal(t, 900*time.Millisecond, cfg.Feedback.MetricTTL())
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.InDelta(t, 120000.0, cfg.Defaults.PurchasePrice, 0.001)
	assert.InDelta(t, 220000.0, cfg.Defaults.ARV, 0.001)
	assert.InDelta(t, 35000.0, cfg.Defaults.RehabBudget, 0.001)
	assert.InDelta(t, 1800.0, cfg.Defaults.EstMonthlyRent, 0.001)

	fin := cfg.Defaults.Financing()
	assert.Equal(t, 6, fin.HoldingMonths)
	assert.InDelta(t, 10.0, fin.AnnualInterestRate, 0.001)
	assert.InDelta(t, 80.0, fin.LoanToCostPct, 0.001)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
api:
  base_url: https://deals.example.com
  rate_per_sec: 0.5
log:
  level: debug
  format: console
server:
  port: 9090
defaults:
  holding_months: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://deals.example.com", cfg.API.BaseURL)
	assert.InDelta(t, 0.5, cfg.API.RatePerSec, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 9, cfg.Defaults.HoldingMonths)
	// Defaults still apply for unset values
	assert.Equal(t, 60, cfg.API.TimeoutSecs)
	assert.InDelta(t, 220000.0, cfg.Defaults.ARV, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
api:
  base_url: https://file.example.com
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DEALSHIELD_API_BASE_URL", "https://env.example.com")
	t.Setenv("DEALSHIELD_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("DEALSHIELD_SERVER_PORT", "3000")
	t.Setenv("DEALSHIELD_EXPORT_LENDER_REPORT_FILENAME", "report.pdf")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "report.pdf", cfg.Export.LenderReportFilename)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://127.0.0.1:8000"
	cfg.API.TimeoutSecs = 60
	cfg.API.RatePerSec = 2
	cfg.API.Burst = 1
	cfg.Server.Port = 8090
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"blank base url", func(c *Config) { c.API.BaseURL = "  " }, "api.base_url is required"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs must be > 0"},
		{"negative rate", func(c *Config) { c.API.RatePerSec = -1 }, "api.rate_per_sec must be > 0"},
		{"zero burst", func(c *Config) { c.API.Burst = 0 }, "api.burst must be >= 1"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port must be > 0"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url is required")
	assert.Contains(t, err.Error(), "api.timeout_secs must be > 0")
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
