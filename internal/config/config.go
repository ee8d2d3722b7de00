package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Rollover  RolloverConfig  `mapstructure:",squash"`
	Inquiry   InquiryConfig   `mapstructure:",squash"`
	Wallet    WalletConfig    `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type RolloverConfig struct {
	CompletionTimeout time.Duration `mapstructure:"ROLLOVER_COMPLETION_TIMEOUT"`
	ListingCacheTTL   time.Duration `mapstructure:"ROLLOVER_LISTING_CACHE_TTL"`
}

type InquiryConfig struct {
	PollInterval time.Duration `mapstructure:"INQUIRY_POLL_INTERVAL"`
	PollAttempts int           `mapstructure:"INQUIRY_POLL_ATTEMPTS"`
	StaleAfter   time.Duration `mapstructure:"INQUIRY_STALE_AFTER"`
}

type WalletConfig struct {
	Enabled               bool   `mapstructure:"WALLET_ENABLED"`
	EndpointAddress       string `mapstructure:"WALLET_ENDPOINT_ADDRESS"`
	UserID                string `mapstructure:"WALLET_USER_ID"`
	Password              string `mapstructure:"WALLET_PASSWORD"`
	ClientID              string `mapstructure:"WALLET_CLIENT_ID"`
	SchemaVersion         string `mapstructure:"WALLET_SCHEMA_VERSION"`
	System                string `mapstructure:"WALLET_SYSTEM"`
	ClientApplicationName string `mapstructure:"WALLET_CLIENT_APPLICATION_NAME"`
	ClientVersion         string `mapstructure:"WALLET_CLIENT_VERSION"`
	ClientVendorName      string `mapstructure:"WALLET_CLIENT_VENDOR_NAME"`
	CertificateFile       string `mapstructure:"WALLET_CERTIFICATE_FILE"`
	CertificateKeyFile    string `mapstructure:"WALLET_CERTIFICATE_KEY_FILE"`
	AndroidStoreURL       string `mapstructure:"WALLET_ANDROID_STORE_URL"`
	IOSStoreURL           string `mapstructure:"WALLET_IOS_STORE_URL"`
	URLScheme             string `mapstructure:"WALLET_URL_SCHEME"`
	PackageName           string `mapstructure:"WALLET_PACKAGE_NAME"`
}

type SchedulerConfig struct {
	StaleInquirySchedule string        `mapstructure:"SCHEDULER_STALE_INQUIRY_SCHEDULE"`
	LogPurgeSchedule     string        `mapstructure:"SCHEDULER_LOG_PURGE_SCHEDULE"`
	LogRetention         time.Duration `mapstructure:"SCHEDULER_LOG_RETENTION"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "120s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ROLLOVER_COMPLETION_TIMEOUT", "30s")
	viper.SetDefault("ROLLOVER_LISTING_CACHE_TTL", "1m")
	viper.SetDefault("INQUIRY_POLL_INTERVAL", "5s")
	viper.SetDefault("INQUIRY_POLL_ATTEMPTS", 10)
	viper.SetDefault("INQUIRY_STALE_AFTER", "15m")
	viper.SetDefault("WALLET_ENABLED", false)
	viper.SetDefault("WALLET_SCHEMA_VERSION", "2.0.0")
	viper.SetDefault("SCHEDULER_STALE_INQUIRY_SCHEDULE", "0 */5 * * * *")
	viper.SetDefault("SCHEDULER_LOG_PURGE_SCHEDULE", "0 0 2 * * *")
	viper.SetDefault("SCHEDULER_LOG_RETENTION", "2160h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Rollover.CompletionTimeout <= 0 {
		return fmt.Errorf("ROLLOVER_COMPLETION_TIMEOUT must be greater than 0")
	}

	if c.Inquiry.PollInterval <= 0 {
		return fmt.Errorf("INQUIRY_POLL_INTERVAL must be greater than 0")
	}

	if c.Inquiry.PollAttempts <= 0 {
		return fmt.Errorf("INQUIRY_POLL_ATTEMPTS must be greater than 0")
	}

	if c.Wallet.Enabled {
		if c.Wallet.EndpointAddress == "" {
			return fmt.Errorf("WALLET_ENDPOINT_ADDRESS is required when the wallet is enabled")
		}
		if c.Wallet.CertificateFile == "" || c.Wallet.CertificateKeyFile == "" {
			return fmt.Errorf("WALLET_CERTIFICATE_FILE and WALLET_CERTIFICATE_KEY_FILE are required when the wallet is enabled")
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// RedisAddr returns the host:port address of the Redis server
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
