package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	IdentitySourceStore = "store"
	IdentitySourceHTTP  = "http"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environment           string        `mapstructure:"ENVIRONMENT"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	AllowedOrigins        []string      `mapstructure:"ALLOWED_ORIGINS"`
	HTTPServerAddress     string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	DBDriver              string        `mapstructure:"DB_DRIVER"`
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	SQLitePath            string        `mapstructure:"SQLITE_PATH"`
	AutoMigrate           bool          `mapstructure:"AUTO_MIGRATE"`
	RedisServerAddress    string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	TokenSecretKey        string        `mapstructure:"TOKEN_SECRET_KEY"`
	IdentitySource        string        `mapstructure:"IDENTITY_SOURCE"`
	UserDirectoryURL      string        `mapstructure:"USER_DIRECTORY_URL"`
	UserDirectoryTimeout  time.Duration `mapstructure:"USER_DIRECTORY_TIMEOUT"`
	IdentityCacheTTL      time.Duration `mapstructure:"IDENTITY_CACHE_TTL"`
	MissingActorPolicy    string        `mapstructure:"MISSING_ACTOR_POLICY"`
	NATSURL               string        `mapstructure:"NATS_URL"`
	NATSSubject           string        `mapstructure:"NATS_SUBJECT"`
	FirebaseProjectID     string        `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentials   string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	DefaultPageSize       int           `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize           int           `mapstructure:"MAX_PAGE_SIZE"`
	MonitorInterval       time.Duration `mapstructure:"MONITOR_INTERVAL"`
	StreamKeepAlivePeriod time.Duration `mapstructure:"STREAM_KEEPALIVE_PERIOD"`
}

// IsDevelopment reports whether the service runs on a developer machine.
func (config Config) IsDevelopment() bool {
	return config.Environment == "development"
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	// Set defaults for non-sensitive config
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "notifications.db")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("REDIS_SERVER_ADDRESS", "")
	v.SetDefault("TOKEN_SECRET_KEY", "")
	v.SetDefault("IDENTITY_SOURCE", IdentitySourceStore)
	v.SetDefault("USER_DIRECTORY_URL", "")
	v.SetDefault("USER_DIRECTORY_TIMEOUT", "3s")
	v.SetDefault("IDENTITY_CACHE_TTL", "5m")
	v.SetDefault("MISSING_ACTOR_POLICY", "suppress")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "social.events")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("MONITOR_INTERVAL", "30s")
	v.SetDefault("STREAM_KEEPALIVE_PERIOD", "25s")

	// Prefer environment variables over config file
	v.AutomaticEnv()

	// Load config file when present
	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			return
		}
	}

	// Unmarshal config into struct
	err = v.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	switch config.DBDriver {
	case DBDriverPostgres:
		if config.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DBDriverSQLite:
		if config.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DBDriverPostgres, DBDriverSQLite)
	}

	switch config.IdentitySource {
	case IdentitySourceStore:
	case IdentitySourceHTTP:
		if config.UserDirectoryURL == "" {
			return fmt.Errorf("USER_DIRECTORY_URL is required when IDENTITY_SOURCE is %q", IdentitySourceHTTP)
		}
	default:
		return fmt.Errorf("IDENTITY_SOURCE must be %q or %q", IdentitySourceStore, IdentitySourceHTTP)
	}

	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.DefaultPageSize <= 0 || config.MaxPageSize < config.DefaultPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive and not exceed MAX_PAGE_SIZE")
	}
	if config.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}

	return nil
}
