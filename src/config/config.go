package config

import (
	"fmt"
	"net/url"
	"os"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over the YAML file.
const (
	EnvAuthToken = "PORTFOLIO_AUTH_TOKEN"
	EnvBaseURL   = "PORTFOLIO_BASE_URL"
)

const (
	DefaultBaseURL = "https://storage.googleapis.com/cash-homework/cash-stocks-api/"
	DefaultPath    = "portfolio.json"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Secrets live in .env or the process environment
	// A missing .env file is normal in production.
	_ = godotenv.Load()
	config.applyEnv()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Default returns a valid configuration without a journal, refresh or events.
func Default() *Config {
	config := &Config{MConfig: &models.MConfig{
		Name:     "portfolio-viewer",
		Host:     "127.0.0.1",
		Port:     8000,
		GrpcHost: "127.0.0.1",
		GrpcPort: 50051,
		Network:  models.MNetworkConfig{MaxRetries: 2},
		Refresh:  models.MRefreshConfig{IntervalSeconds: 300},
	}}
	config.applyDefaults()
	return config
}

// -----------------------------------------------------------------------------

// Save writes the configuration as YAML. The auth token is never written.
func (c *Config) Save(path string) error {
	out := *c.MConfig
	out.Portfolio.AuthToken = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", path, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "none"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Network.RetryBaseMs == 0 {
		c.Network.RetryBaseMs = 500
	}
	if c.Portfolio.BaseURL == "" {
		c.Portfolio.BaseURL = DefaultBaseURL
	}
	if c.Portfolio.Path == "" {
		c.Portfolio.Path = DefaultPath
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "portfolio-view"
	}
	if c.Events.ClientID == "" {
		c.Events.ClientID = c.Name
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() {
	if token := os.Getenv(EnvAuthToken); token != "" {
		c.Portfolio.AuthToken = token
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		c.Portfolio.BaseURL = base
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	// gRPC is optional; 0 disables it
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}

	switch c.Storage.DBType {
	case "none":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.RetryBaseMs < 0 {
		return fmt.Errorf("retry base delay cannot be negative")
	}
	if c.Network.Proxy != "" {
		if _, err := url.Parse(c.Network.Proxy); err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}
	}

	base, err := url.Parse(c.Portfolio.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid portfolio base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("portfolio base url must be absolute: %q", c.Portfolio.BaseURL)
	}

	if c.Refresh.Enabled && c.Refresh.IntervalSeconds <= 0 {
		return fmt.Errorf("refresh interval must be greater than 0")
	}

	for i, broker := range c.Events.Brokers {
		if broker == "" {
			return fmt.Errorf("event broker %d cannot be empty", i)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// PortfolioURL is the absolute URL of the portfolio document.
func (c *Config) PortfolioURL() (string, error) {
	base, err := url.Parse(c.Portfolio.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(c.Portfolio.Path)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// -----------------------------------------------------------------------------

// MaskedToken shows only the last 4 characters of the auth token.
func (c *Config) MaskedToken() string {
	token := c.Portfolio.AuthToken
	if token == "" {
		return ""
	}
	if len(token) > 4 {
		return "***" + token[len(token)-4:]
	}
	return "***"
}
