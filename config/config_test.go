package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModePassword, cfg.Auth.Mode)
	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "http", cfg.Services)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval)
	assert.False(t, cfg.Statsd.Enabled)
	assert.Equal(t, "localhost:8125", cfg.Statsd.Addr)
	assert.Equal(t, "campus", cfg.Statsd.Prefix)
}

func TestAuthModeUnmarshal(t *testing.T) {
	var mode AuthMode

	require.NoError(t, mode.UnmarshalText([]byte("OAuth")))
	assert.Equal(t, AuthModeOAuth, mode)

	require.NoError(t, mode.UnmarshalText([]byte("password")))
	assert.Equal(t, AuthModePassword, mode)

	assert.Error(t, mode.UnmarshalText([]byte("ldap")))
}

func TestParseServices(t *testing.T) {
	services, err := ParseServices("http, scheduler")
	require.NoError(t, err)
	assert.True(t, services[ServiceModeHTTP])
	assert.True(t, services[ServiceModeScheduler])

	_, err = ParseServices("")
	assert.Error(t, err)

	_, err = ParseServices("reaper")
	assert.Error(t, err)
}

func TestSchedulerSanitizeClampsInterval(t *testing.T) {
	s := SchedulerConfig{Interval: time.Millisecond}
	s.Sanitize()
	assert.Equal(t, time.Second, s.Interval)
}

func TestDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
