package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexCompare/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 365, cfg.Provider.MaxSpanDays)
	assert.Equal(t, 1, cfg.Provider.ParallelChunks)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "NIFTY 50", cfg.Comparison.IndexA)
	assert.Equal(t, "0 0 18 * * 1-5", cfg.Schedule.ReportCron)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
provider:
  timeout: 30s
  max_span_days: 180
  parallel_chunks: 4
comparison:
  index_a: NIFTY IT
  index_b: NIFTY PHARMA
  start: 01-01-2020
  end: 31-12-2023
overall_timeout: 2m
chart:
  width: 800
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 180, cfg.Provider.MaxSpanDays)
	assert.Equal(t, 4, cfg.Provider.ParallelChunks)
	assert.Equal(t, "NIFTY IT", cfg.Comparison.IndexA)
	assert.Equal(t, 2*time.Minute, cfg.OverallTimeout)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, 500, cfg.Chart.Height)
	assert.Equal(t, "debug", cfg.Logging.Level)

	r, err := cfg.ComparisonRange(time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2020, 1, 1), r.Start)
	assert.Equal(t, model.NewDate(2023, 12, 31), r.End)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "comparison:\n  index_a: NIFTY IT\n")
	t.Setenv("INDEX_A", "NIFTY AUTO")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("PARALLEL_CHUNKS", "3")
	t.Setenv("OVERALL_TIMEOUT", "45s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "NIFTY AUTO", cfg.Comparison.IndexA)
	assert.Equal(t, 3, cfg.Provider.ParallelChunks)
	assert.Equal(t, 45*time.Second, cfg.OverallTimeout)
	assert.NoError(t, cfg.ValidateDaemon())
}

func TestLoad_BadInput(t *testing.T) {
	_, err := Load(writeConfig(t, "provider: [not, a, map"))
	assert.Error(t, err)

	t.Setenv("MAX_SPAN_DAYS", "many")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero span", func(c *Config) { c.Provider.MaxSpanDays = -1 }},
		{"zero parallelism", func(c *Config) { c.Provider.ParallelChunks = -2 }},
		{"start without end", func(c *Config) { c.Comparison.Start = "01-01-2023" }},
		{"bad date", func(c *Config) { c.Comparison.Start, c.Comparison.End = "2023-01-01", "02-01-2023" }},
		{"bad cron", func(c *Config) { c.Schedule.ReportCron = "every day" }},
		{"missing index", func(c *Config) { c.Comparison.IndexB = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDaemon_RequiresTelegram(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateDaemon())
}

func TestComparisonRange_Lookback(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Comparison.LookbackDays = 30

	now := time.Date(2024, 3, 31, 17, 45, 0, 0, time.UTC)
	r, err := cfg.ComparisonRange(now)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, 3, 31), r.End)
	assert.Equal(t, model.NewDate(2024, 3, 2), r.Start)
	assert.Equal(t, 30, r.Days())
}

func TestComparisonRange_DefaultLookbackFitsOneRequest(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	r, err := cfg.ComparisonRange(time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, cfg.Provider.MaxSpanDays, r.Days())
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BROKEN=\"unterminated\n"), 0o644))
	t.Chdir(dir)

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load .env")
}

func TestLoad_DotEnvValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOOKBACK_DAYS=90\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("LOOKBACK_DAYS", "")
	os.Unsetenv("LOOKBACK_DAYS")

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Comparison.LookbackDays)
}
