package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_USER", "tightknit")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_HOST", "localhost:3306")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultDBName, cfg.DBName)
	assert.Equal(t, DefaultConnectionCap, cfg.ConnectionCap)
	assert.Equal(t, DefaultAvatarSize, cfg.AvatarSize)
	assert.Empty(t, cfg.FEOrigins)
}

func TestLoadMissingPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingDBCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_NAME", "tightknit_test")
	t.Setenv("CONNECTION_CAP", "150")
	t.Setenv("AVATAR_SIZE", "128")
	t.Setenv("FE_ORIGINS", "https://app.example.com;http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tightknit_test", cfg.DBName)
	assert.Equal(t, 150, cfg.ConnectionCap)
	assert.Equal(t, 128, cfg.AvatarSize)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.FEOrigins)
}

func TestLoadRejectsBadCap(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONNECTION_CAP", "zero")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CONNECTION_CAP", "0")
	_, err = Load()
	assert.Error(t, err)
}
