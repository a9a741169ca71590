package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trackboard/internal/config"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := config.DefaultEngineConfig()

	assert.Equal(t, 0.004, cfg.PayoutPerStream)
	assert.Equal(t, 7, cfg.GrowthWindowDays)
	assert.Equal(t, 7, cfg.FallbackHistoryDays)
	assert.Equal(t, int64(50), cfg.MinPlaycountFloor)
}

func TestEngineDerivedFromConfig(t *testing.T) {
	c := &config.Config{
		PayoutPerStream:     0.005,
		GrowthWindowDays:    14,
		FallbackHistoryDays: 10,
		MinPlaycountFloor:   25,
	}

	engine := c.Engine()
	assert.Equal(t, 0.005, engine.PayoutPerStream)
	assert.Equal(t, 14, engine.GrowthWindowDays)
	assert.Equal(t, 10, engine.FallbackHistoryDays)
	assert.Equal(t, int64(25), engine.MinPlaycountFloor)
}

func TestEnvironmentPredicates(t *testing.T) {
	c := &config.Config{Environment: config.Production}
	assert.True(t, c.IsProduction())
	assert.False(t, c.IsDevelopment())
	assert.False(t, c.IsTest())

	c.Environment = config.Test
	assert.True(t, c.IsTest())
}

func TestGetDatabasePath(t *testing.T) {
	c := &config.Config{
		AppName:      "trackboard",
		Environment:  config.Development,
		DatabasePath: "storage",
	}
	assert.Equal(t, "storage/trackboard-development.db", c.GetDatabasePath())

	// Derived once, then stable.
	c.Environment = config.Production
	assert.Equal(t, "storage/trackboard-development.db", c.GetDatabasePath())
}

func TestConnectionDefaults(t *testing.T) {
	c := &config.Config{}
	assert.Equal(t, 1, c.GetMaxOpenConns())
	assert.Equal(t, 1, c.GetMaxIdleConns())

	c.DatabaseMaxOpenConns = 8
	assert.Equal(t, 8, c.GetMaxOpenConns())
}
