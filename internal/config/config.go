package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	Port           string        `mapstructure:"PORT"`
	GinMode        string        `mapstructure:"GIN_MODE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	SeedFile       string        `mapstructure:"SEED_FILE"`
}

var AppConfig *Config

// ErrMissingSecret is returned when JWT_SECRET is empty outside of debug mode.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

const devSecret = "gachaactu-dev-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 7*24*time.Hour)
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SEED_FILE", "seed.yaml")
}

// LoadConfig loads the configuration from a .env file in dir and environment variables.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, loading from environment variables", "dir", dir)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.JWTSecret == "" {
		if c.GinMode != "debug" {
			return ErrMissingSecret
		}
		slog.Warn("JWT_SECRET not set, using development secret")
		c.JWTSecret = devSecret
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}
