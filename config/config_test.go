package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.JWT.SecretKey = "secret"
	cfg.Identity.APIKey = "identity-key"
	cfg.Identity.BaseURL = "https://project.example.co"
	cfg.Provider.APIKey = "provider-key"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Run("complete config passes", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing JWT secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	})

	t.Run("all missing secrets reported at once", func(t *testing.T) {
		var cfg Config
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
		assert.Contains(t, err.Error(), "IDENTITY_API_KEY")
		assert.Contains(t, err.Error(), "identity.baseURL")
		assert.Contains(t, err.Error(), "PROVIDER_API_KEY")
	})
}

func TestInitConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("IDENTITY_API_KEY", "test-identity-key")
	t.Setenv("IDENTITY_BASE_URL", "https://project.example.co")
	t.Setenv("PROVIDER_API_KEY", "test-provider-key")
	t.Setenv("PORT", "8088")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "https://project.example.co", cfg.Identity.BaseURL)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Provider.BaseURL)
	assert.Equal(t, "usd", cfg.Provider.VsCurrency)
	assert.Equal(t, 10, cfg.Provider.PerPage)
	assert.Equal(t, "8088", cfg.Server.HTTPPort, "PORT overrides the configured port")
}

func TestInitConfig_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("IDENTITY_API_KEY", "")
	t.Setenv("IDENTITY_BASE_URL", "")
	t.Setenv("PROVIDER_API_KEY", "")

	_, err := InitConfig()
	require.Error(t, err)
}
