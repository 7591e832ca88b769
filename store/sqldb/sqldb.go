// Package sqldb is the sqlite store backend, built on gorm.
package sqldb

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/govm-net/riffs/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	defaultDBPath = "./riffs.db"
)

// DBEntry is one key/value row
type DBEntry struct {
	Key   []byte `gorm:"column:entry_key;primaryKey;type:blob"`
	Value []byte `gorm:"column:entry_value;type:blob;not null"`
}

// TableName specifies the table name for DBEntry
func (DBEntry) TableName() string {
	return "kv_entries"
}

// Store implements store.Store using SQLite with GORM
type Store struct {
	db *gorm.DB
}

func init() {
	if err := store.Register(store.SQLiteBackend, func(params map[string]any) (store.Store, error) {
		return Open(store.PathParam(params, defaultDBPath))
	}); err != nil {
		panic(err)
	}
}

// Open opens (or creates) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&DBEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Debug("sqlite store opened", "path", dbPath)
	return &Store{db: db}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var entry DBEntry
	result := s.db.Where("entry_key = ?", key).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get entry: %w", result.Error)
	}
	return entry.Value, nil
}

func (s *Store) Has(key []byte) (bool, error) {
	var count int64
	if err := s.db.Model(&DBEntry{}).Where("entry_key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}
	return count > 0, nil
}

// Commit applies the batch inside one transaction.
func (s *Store) Commit(b *store.Batch) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range b.Ops() {
			if op.Delete() {
				if err := tx.Where("entry_key = ?", op.Key).Delete(&DBEntry{}).Error; err != nil {
					return fmt.Errorf("failed to delete entry: %w", err)
				}
				continue
			}
			entry := DBEntry{Key: op.Key, Value: op.Value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "entry_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"entry_value"}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("failed to write entry: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
