package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MATCHING_SKILL_WEIGHT", "")
	t.Setenv("SESSION_MAX_RESCHEDULES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 30, cfg.Matching.SkillWeight)
	assert.Equal(t, 25, cfg.Matching.ExperienceWeight)
	assert.Equal(t, 20, cfg.Matching.RatingWeight)
	assert.Equal(t, 15, cfg.Matching.AvailabilityWeight)
	assert.Equal(t, 10, cfg.Matching.PriceWeight)
	assert.Equal(t, 3, cfg.Sessions.MaxReschedules)
	assert.Equal(t, "matching.requests", cfg.NATS.RequestSubject)
	assert.Equal(t, time.Hour, cfg.Cache.CoachTTL())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("MATCHING_PRICE_WEIGHT", "40")
	t.Setenv("MATCHING_CONFIDENCE_THRESHOLD", "72.5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.App.Addr())
	assert.Equal(t, 40, cfg.Matching.PriceWeight)
	assert.InDelta(t, 72.5, cfg.Matching.ConfidenceThreshold, 0.0001)
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}

func TestMalformedIntegerFallsBack(t *testing.T) {
	t.Setenv("MATCHING_MAX_RESULTS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Matching.MaxResults)
}

func TestRequestTimeoutDisabledWhenNonPositive(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, 15*time.Second, AppConfig{RequestTimeoutSeconds: 15}.RequestTimeout())
	assert.Equal(t, 5*time.Second, NotificationConfig{}.WebhookTimeout())
	assert.Equal(t, time.Duration(0), NotificationConfig{}.RetryBackoff())
	assert.Equal(t, 250*time.Millisecond, NotificationConfig{RetryBackoffMillis: 250}.RetryBackoff())
}
