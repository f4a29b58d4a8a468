package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_OWNER", "any-owner")
	t.Setenv("GITHUB_REPO", "any-repo")
}

func TestNew_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.ServerAddr())
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.GitHub.LookbackDays)
	assert.Equal(t, "test-token", cfg.GitHub.Token)
}

func TestNew_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "10s")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_OWNER", "any-owner")
	t.Setenv("GITHUB_REPO", "any-repo")

	_, err := New()
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}
