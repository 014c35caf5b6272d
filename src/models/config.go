package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	GrpcHost  string           `yaml:"grpc_host"`
	GrpcPort  int              `yaml:"grpc_port"`
	Storage   MStorageConfig   `yaml:"storage"`
	Network   MNetworkConfig   `yaml:"network"`
	Portfolio MPortfolioConfig `yaml:"portfolio"`
	Refresh   MRefreshConfig   `yaml:"refresh"`
	Events    MEventsConfig    `yaml:"events"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // none, sqlite, postgres
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"retries"`
	RetryBaseMs    int    `yaml:"retry_base_ms"`
	UserAgent      string `yaml:"user_agent"`
	Proxy          string `yaml:"proxy"` // Optional
}

type MPortfolioConfig struct {
	BaseURL   string `yaml:"base_url"`
	Path      string `yaml:"path"`
	AuthToken string `yaml:"auth_token"` // Optional, usually from PORTFOLIO_AUTH_TOKEN
}

type MRefreshConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	MarketHoursOnly bool `yaml:"market_hours_only"`
}

type MEventsConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}
