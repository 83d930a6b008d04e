package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	API struct {
		// BaseURL is the fixed base path of the back-office API,
		// e.g. "https://example.com/api/student-enquiry".
		BaseURL string `yaml:"base_url" env:"API_BASE_URL"`
		// Timeout bounds every request; empty means the transport default.
		Timeout string `yaml:"timeout" env:"API_TIMEOUT"`
	} `yaml:"api"`

	Credentials struct {
		// Path is where the encrypted token file lives.
		Path string `yaml:"path" env:"CRED_PATH"`
		// Secret seals the token at rest.
		Secret string `yaml:"secret" env:"CRED_SECRET"`
	} `yaml:"credentials"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.API.Timeout = "30s"

	config.Credentials.Path = ".backoffice/credentials"

	config.Logging.Level = "info"
	config.Logging.Format = "console"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if _, err := url.Parse(config.API.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if config.API.Timeout != "" {
		if _, err := time.ParseDuration(config.API.Timeout); err != nil {
			return fmt.Errorf("invalid API timeout format: %w", err)
		}
	}

	return nil
}

// RequestTimeout returns the configured request timeout, zero when unset.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}
