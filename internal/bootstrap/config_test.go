package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neduet/campus-api/config"
)

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))

	cfg := &config.AppConfig{Services: "http,scheduler"}
	assert.NoError(t, ValidateServiceConfig(cfg))

	cfg.Services = "reaper"
	assert.Error(t, ValidateServiceConfig(cfg))

	cfg.Services = ""
	assert.Error(t, ValidateServiceConfig(cfg))
}

func TestBuildAuthServiceRequiresRedis(t *testing.T) {
	_, err := BuildAuthService(AuthDeps{Auth: config.AuthConfig{Mode: config.AuthModePassword}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
