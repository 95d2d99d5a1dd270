package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []float64{1.0, 0.5, 0.25}, cfg.Voting.Weights)
	assert.Equal(t, 10, cfg.Voting.DailyBudget)
	assert.Equal(t, 12, cfg.Voting.CutoffHour)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.LockTTL)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.CronSpec())
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9000
voting:
  weights: [2.0, 1.5]
  daily_budget: 3
  cutoff_hour: 0
  timezone: UTC
scheduler:
  cron: "30 11 * * 1-5"
kafka:
  brokers: ["file-broker:9092"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []float64{2.0, 1.5}, cfg.Voting.Weights)
	assert.Equal(t, 0, cfg.Voting.CutoffHour)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "30 11 * * 1-5", cfg.Scheduler.CronSpec())

	loc, err := cfg.Voting.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("voting:\n  cutoff_hour: 24\n"), 0o600))
	_, err := LoadConfigFrom(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("voting:\n  timezone: Mars/Olympus\n"), 0o600))
	_, err = LoadConfigFrom(dir)
	assert.Error(t, err)
}
