package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workday/internal/models"
)

// ErrNotFound is returned by lookups when no matching row exists.
var ErrNotFound = errors.New("store: record not found")

// Store owns the SQLite handle and the change bus. It is constructed
// once at startup and passed by reference to everything that needs
// persistence; there is no package-level instance.
type Store struct {
	db  *gorm.DB
	bus *bus
}

// Open opens (or creates) the database at path and runs migrations.
// Pass ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&models.WorkSession{}, &models.Task{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db, bus: newBus()}, nil
}

// Subscribe registers a listener on the change bus. Every successful
// mutation publishes an Event naming the table that changed; the
// listener is expected to re-run whatever query it cares about.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.bus.subscribe()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
