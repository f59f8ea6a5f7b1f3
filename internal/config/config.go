package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the application needs at startup. Values come from
// app.env in the given path, overridden by environment variables of the same
// name. Secrets (database URL, JWT secret, Google keys) are expected to be
// injected by the deployment environment.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	// GoogleMapsAPIKey authorizes Directions calls made by the checker.
	// GooglePlacesAPIKey authorizes the address autocomplete proxy.
	GoogleMapsAPIKey   string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GooglePlacesAPIKey string `mapstructure:"GOOGLE_PLACES_API_KEY"`

	// MapsTimeout bounds a single Directions request; a route whose fetch
	// exceeds it is reported as a failed outcome, not a hang.
	MapsTimeout time.Duration `mapstructure:"MAPS_TIMEOUT"`
	// MapsRatePerSecond caps Directions calls across ticks to respect the
	// provider quota.
	MapsRatePerSecond int `mapstructure:"MAPS_RATE_PER_SECOND"`

	// SchedulerEnabled controls the embedded minute cron. When disabled,
	// checks only run via POST /internal/checks/run (external scheduler).
	SchedulerEnabled bool `mapstructure:"SCHEDULER_ENABLED"`
	// CronToken guards the internal check endpoint.
	CronToken string `mapstructure:"CRON_TOKEN"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	AWSRegion   string `mapstructure:"AWS_REGION"`
	EmailSender string `mapstructure:"EMAIL_SENDER"`
}

// LoadConfig reads configuration from app.env in the given path and the
// process environment.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAPS_TIMEOUT", 15*time.Second)
	viper.SetDefault("MAPS_RATE_PER_SECOND", 10)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; the environment can supply everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
