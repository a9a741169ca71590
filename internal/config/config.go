// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Database types
const (
	SQLiteDatabase = "sqlite"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// File paths
	DatabasePath string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Aggregation engine settings
	PayoutPerStream     float64 `mapstructure:"payoutperstream"`
	GrowthWindowDays    int     `mapstructure:"growthwindowdays"`
	FallbackHistoryDays int     `mapstructure:"fallbackhistorydays"`
	MinPlaycountFloor   int64   `mapstructure:"minplaycountfloor"`

	// API limits
	DefaultHistoryLimit int `mapstructure:"defaulthistorylimit"`
	MaxPageSize         int `mapstructure:"maxpagesize"`

	// Data retention; zero or negative disables cleanup
	RetentionDays int `mapstructure:"retentiondays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "trackboard")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbtype", SQLiteDatabase)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("payoutperstream", 0.004)
		v.SetDefault("growthwindowdays", 7)
		v.SetDefault("fallbackhistorydays", 7)
		v.SetDefault("minplaycountfloor", 50)
		v.SetDefault("defaulthistorylimit", 30)
		v.SetDefault("maxpagesize", 100)
		v.SetDefault("retentiondays", 730)

		// Bind environment variables
		v.BindEnv("appname", "TRACKBOARD_APP_NAME")
		v.BindEnv("appport", "TRACKBOARD_APP_PORT")
		v.BindEnv("environment", "TRACKBOARD_ENV")
		v.BindEnv("loglevel", "TRACKBOARD_LOG_LEVEL")
		v.BindEnv("storagepath", "TRACKBOARD_STORAGE_PATH")
		v.BindEnv("logsdir", "TRACKBOARD_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "TRACKBOARD_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "TRACKBOARD_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "TRACKBOARD_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbtype", "TRACKBOARD_DB_TYPE")
		v.BindEnv("dbmaxopenconns", "TRACKBOARD_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "TRACKBOARD_DB_MAX_IDLE_CONNS")
		v.BindEnv("payoutperstream", "TRACKBOARD_PAYOUT_PER_STREAM")
		v.BindEnv("growthwindowdays", "TRACKBOARD_GROWTH_WINDOW_DAYS")
		v.BindEnv("fallbackhistorydays", "TRACKBOARD_FALLBACK_HISTORY_DAYS")
		v.BindEnv("minplaycountfloor", "TRACKBOARD_MIN_PLAYCOUNT_FLOOR")
		v.BindEnv("defaulthistorylimit", "TRACKBOARD_DEFAULT_HISTORY_LIMIT")
		v.BindEnv("maxpagesize", "TRACKBOARD_MAX_PAGE_SIZE")
		v.BindEnv("retentiondays", "TRACKBOARD_RETENTION_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDBTypes := map[string]bool{
		SQLiteDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}

	if c.PayoutPerStream < 0 {
		return fmt.Errorf("invalid payout per stream: %f", c.PayoutPerStream)
	}
	if c.GrowthWindowDays < 1 {
		return fmt.Errorf("invalid growth window: %d days", c.GrowthWindowDays)
	}
	if c.FallbackHistoryDays < 1 {
		return fmt.Errorf("invalid fallback history span: %d days", c.FallbackHistoryDays)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the configured max open connections, with a sane default
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}
	return 1
}

// GetMaxIdleConns returns the configured max idle connections, with a sane default
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}
	return 1
}

// Engine returns the aggregation engine constants derived from this config.
func (c *Config) Engine() EngineConfig {
	return EngineConfig{
		PayoutPerStream:     c.PayoutPerStream,
		GrowthWindowDays:    c.GrowthWindowDays,
		FallbackHistoryDays: c.FallbackHistoryDays,
		MinPlaycountFloor:   c.MinPlaycountFloor,
	}
}

// EngineConfig bundles the overridable constants the aggregation engine
// depends on. It is a plain value so the pure engine functions can take it
// without reaching into global configuration.
type EngineConfig struct {
	PayoutPerStream     float64
	GrowthWindowDays    int
	FallbackHistoryDays int
	MinPlaycountFloor   int64
}

// DefaultEngineConfig returns the engine constants at their documented defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PayoutPerStream:     0.004,
		GrowthWindowDays:    7,
		FallbackHistoryDays: 7,
		MinPlaycountFloor:   50,
	}
}
