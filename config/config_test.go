// config_test.go - Tests for environment parsing and defaults

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINE_PER_DAY", "")
	t.Setenv("LOAN_PERIOD_DAYS", "")
	t.Setenv("SWEEP_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10.0, cfg.FinePerDay)
	assert.Equal(t, 10*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif"}, cfg.AllowedExtensions)
	assert.True(t, cfg.SweepOnRequest)
	assert.Zero(t, cfg.SweepInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("FINE_PER_DAY", "2.5")
	t.Setenv("LOAN_PERIOD_DAYS", "14")
	t.Setenv("ALLOWED_EXTENSIONS", " .PNG, webp ,,")
	t.Setenv("SWEEP_INTERVAL", "30")
	t.Setenv("SWEEP_ON_REQUEST", "false")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2.5, cfg.FinePerDay)
	assert.Equal(t, 14*24*time.Hour, cfg.LoanPeriod)
	assert.Equal(t, []string{"png", "webp"}, cfg.AllowedExtensions)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
	assert.False(t, cfg.SweepOnRequest)
}
