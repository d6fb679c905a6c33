package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Backend API configuration.
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
	APIRequestsPerSec int    `mapstructure:"API_REQUESTS_PER_SEC"`
	APIBurst          int    `mapstructure:"API_BURST"`

	// Session defaults.
	DefaultSessionMinutes int `mapstructure:"DEFAULT_SESSION_MINUTES"`
	AutosaveDelayMs       int `mapstructure:"AUTOSAVE_DELAY_MS"`

	// Directory listing defaults.
	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`

	// Local preference storage.
	PrefsDBPath string `mapstructure:"PREFS_DB_PATH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("API_BASE_URL", "http://localhost:5000")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("API_REQUESTS_PER_SEC", 10)
	viper.SetDefault("API_BURST", 20)
	viper.SetDefault("DEFAULT_SESSION_MINUTES", 30)
	viper.SetDefault("AUTOSAVE_DELAY_MS", 3000)
	viper.SetDefault("DEFAULT_PAGE_SIZE", 10)
	viper.SetDefault("PREFS_DB_PATH", "shuryan.db")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// APITimeout returns the request timeout as a duration.
func APITimeout() time.Duration {
	secs := AppConfig.APITimeoutSeconds
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs) * time.Second
}

// AutosaveDelay returns the documentation autosave quiet period.
func AutosaveDelay() time.Duration {
	ms := AppConfig.AutosaveDelayMs
	if ms <= 0 {
		ms = 3000
	}
	return time.Duration(ms) * time.Millisecond
}
