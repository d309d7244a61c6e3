// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// PublicBaseURL is the externally visible base URL. It is used to build
	// the OAuth redirect_uri and the next_step URLs handed to clients, so it
	// must match what the provider has registered.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Redis Configuration (OAuth state store)
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// OAuth2 Provider Configuration
	OAuth2AuthURL         string        `mapstructure:"OAUTH2_AUTH_URL"`
	OAuth2TokenURL        string        `mapstructure:"OAUTH2_TOKEN_URL"`
	OAuth2UserInfoURL     string        `mapstructure:"OAUTH2_USERINFO_URL"`
	OAuth2ClientID        string        `mapstructure:"OAUTH2_CLIENT_ID"`
	OAuth2ClientSecret    string        `mapstructure:"OAUTH2_CLIENT_SECRET"`
	OAuth2Scope           string        `mapstructure:"OAUTH2_SCOPE"`
	OAuthStateTTL         time.Duration `mapstructure:"OAUTH_STATE_TTL_MINUTES"`
	OAuthSessionCookie    string        `mapstructure:"OAUTH_SESSION_COOKIE_NAME"`
	OAuthCookieSecure     bool          `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthExchangeTimeout  time.Duration `mapstructure:"OAUTH_EXCHANGE_TIMEOUT_SECONDS"`

	// Background Jobs
	StaleOnboardingJobSchedule string `mapstructure:"STALE_ONBOARDING_JOB_SCHEDULE"`
	StaleOnboardingAgeDays     int    `mapstructure:"STALE_ONBOARDING_AGE_DAYS"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "bazaar_onboarding_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("OAUTH2_AUTH_URL", "")
	v.SetDefault("OAUTH2_TOKEN_URL", "")
	v.SetDefault("OAUTH2_USERINFO_URL", "")
	v.SetDefault("OAUTH2_CLIENT_ID", "")
	v.SetDefault("OAUTH2_CLIENT_SECRET", "")
	v.SetDefault("OAUTH2_SCOPE", "offline_access")
	v.SetDefault("OAUTH_STATE_TTL_MINUTES", 10)
	v.SetDefault("OAUTH_SESSION_COOKIE_NAME", "onboarding_session")
	v.SetDefault("OAUTH_COOKIE_SECURE", false)
	v.SetDefault("OAUTH_EXCHANGE_TIMEOUT_SECONDS", 10)

	v.SetDefault("STALE_ONBOARDING_JOB_SCHEDULE", "@daily")
	v.SetDefault("STALE_ONBOARDING_AGE_DAYS", 7)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.OAuthStateTTL = time.Duration(v.GetInt("OAUTH_STATE_TTL_MINUTES")) * time.Minute
	cfg.OAuthExchangeTimeout = time.Duration(v.GetInt("OAUTH_EXCHANGE_TIMEOUT_SECONDS")) * time.Second

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Basic validation for critical configs. The callback leg cannot work
	// without the full provider configuration, so fail at startup rather
	// than on the first exchange.
	required := map[string]string{
		"OAUTH2_AUTH_URL":      cfg.OAuth2AuthURL,
		"OAUTH2_TOKEN_URL":     cfg.OAuth2TokenURL,
		"OAUTH2_USERINFO_URL":  cfg.OAuth2UserInfoURL,
		"OAUTH2_CLIENT_ID":     cfg.OAuth2ClientID,
		"OAUTH2_CLIENT_SECRET": cfg.OAuth2ClientSecret,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("FATAL: %s is not set. The OAuth handshake cannot run without it", name)
		}
	}

	return &cfg, nil
}

// DSN builds the GORM postgres DSN from the individual DB settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}
