package database

import (
	"os"
	"path/filepath"

	"github.com/anhlelha/aws-exam-practice/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the SQLite store. WAL keeps readers unblocked during
// writes; foreign_keys makes the schema's ON DELETE clauses effective.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := cfg.DatabasePath + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to open database")
		return nil, err
	}

	log.Info().Str("path", cfg.DatabasePath).Msg("Database connected")
	return db, nil
}
