package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig holds the settings for the session token codec. SecretKey has no
// default: the process refuses to start without one.
type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	Issuer    string        `mapstructure:"issuer"`
}

// IdentityConfig points at the hosted identity/storage backend.
type IdentityConfig struct {
	BaseURL string `mapstructure:"baseURL"`
	APIKey  string
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProviderConfig points at the market-data provider.
type ProviderConfig struct {
	BaseURL    string `mapstructure:"baseURL"`
	APIKey     string
	VsCurrency string        `mapstructure:"vsCurrency"`
	PerPage    int           `mapstructure:"perPage"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Identity IdentityConfig `mapstructure:"identity"`
	Provider ProviderConfig `mapstructure:"provider"`
	Client   struct {
		// BaseURL is where password-reset links send the user.
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"client"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets never live in the YAML. Environment only.
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.Identity.APIKey = os.Getenv("IDENTITY_API_KEY")
	config.Provider.APIKey = os.Getenv("PROVIDER_API_KEY")
	if url := os.Getenv("IDENTITY_BASE_URL"); url != "" {
		config.Identity.BaseURL = url
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.HTTPPort = port
	}
	if url := os.Getenv("CLIENT_URL"); url != "" {
		config.Client.BaseURL = url
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate refuses to run with missing secrets. There is no insecure
// fallback value for any of these.
func (c *Config) Validate() error {
	var missing []error
	if c.JWT.SecretKey == "" {
		missing = append(missing, errors.New("JWT_SECRET_KEY is not set"))
	}
	if c.Identity.APIKey == "" {
		missing = append(missing, errors.New("IDENTITY_API_KEY is not set"))
	}
	if c.Identity.BaseURL == "" {
		missing = append(missing, errors.New("identity.baseURL is not configured"))
	}
	if c.Provider.APIKey == "" {
		missing = append(missing, errors.New("PROVIDER_API_KEY is not set"))
	}
	return errors.Join(missing...)
}
