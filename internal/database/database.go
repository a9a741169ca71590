// Package database manages the SQLite connection and schema migrations.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trackboard/internal/config"
)

// writeRetries is how many times a write is retried when SQLite reports
// the database as locked or busy before giving up.
const writeRetries = 3

// Manager owns the GORM connection for the application.
type Manager struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *gorm.DB
}

// NewManager creates a database manager. Connect must be called before use.
func NewManager(cfg *config.Config, logger *logrus.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger}
}

// Connect opens the SQLite database with WAL enabled and configures the pool.
func (m *Manager) Connect() error {
	if err := os.MkdirAll(filepath.Dir(m.cfg.DatabaseName), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", m.cfg.DatabaseName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", m.cfg.DatabaseName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(m.cfg.GetMaxIdleConns())

	m.db = db
	m.logger.WithField("path", m.cfg.DatabaseName).Info("Database connected")
	return nil
}

// GetConnection returns the GORM connection, or nil if Connect has not run.
func (m *Manager) GetConnection() *gorm.DB {
	return m.db
}

// Migrate runs schema migrations for the given models. The model list
// comes from the caller so this package stays below the packages that
// declare them.
func (m *Manager) Migrate(models ...interface{}) error {
	if m.db == nil {
		return gorm.ErrInvalidDB
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(models...)
	})
}

// Close closes the underlying connection.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PerformWrite runs fn inside a transaction, retrying when SQLite reports
// the database as locked or busy.
func PerformWrite(logger *logrus.Logger, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= writeRetries; attempt++ {
		err = db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !isBusyError(err) {
			return err
		}
		logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Database busy, retrying write")
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return fmt.Errorf("write failed after %d attempts: %w", writeRetries, err)
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
