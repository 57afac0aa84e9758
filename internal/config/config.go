package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env               string        `mapstructure:"env"`                 // current application environment (local, dev, prod etc)
	HTTPAddr          string        `mapstructure:"http_addr"`           // listen address of the HTTP API
	QuestionsJSONPath string        `mapstructure:"questions_json_path"` // path to the JSON question catalog
	SnapshotTTL       time.Duration `mapstructure:"snapshot_ttl"`        // age after which abandoned snapshots are purged
	DB                DB            `mapstructure:"database"`            // database configuration section
	Telegram          Telegram      `mapstructure:"telegram"`            // optional result-notification section
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Telegram configures the optional finalize notification. The feature
// is disabled when the token is empty.
type Telegram struct {
	APIToken       string `mapstructure:"-"` // bot token loaded from environment
	ReviewerChatID int64  `mapstructure:"reviewer_chat_id"`
}

// Enabled reports whether result notifications are configured.
func (t Telegram) Enabled() bool {
	return t.APIToken != "" && t.ReviewerChatID != 0
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("questions_json_path", "assets/data/questions.json")
	v.SetDefault("snapshot_ttl", "168h")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("telegram.reviewer_chat_id", "REVIEWER_CHAT_ID")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// Notifications are optional; a missing token just disables them.
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")

	return &cfg, nil
}
