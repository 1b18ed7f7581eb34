package datastore

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// MemoryDSN opens a private in-memory SQLite database
const MemoryDSN = ":memory:"

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	gormStore
	Path string
}

// NewSQLiteStore returns an unopened SQLite store for path
func NewSQLiteStore(path string, log logger.Logger) *SQLiteStore {
	if log == nil {
		log = logger.Discard()
	}
	return &SQLiteStore{
		gormStore: gormStore{dialect: "sqlite", logger: log.Module("sqlite")},
		Path:      path,
	}
}

// Open connects to the database file, creating it and its directory when
// missing, and migrates the schema.
func (store *SQLiteStore) Open() error {
	if store.Path != MemoryDSN {
		if dir := filepath.Dir(store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New(err).
					Component("datastore").
					Category(errors.CategoryFileIO).
					Context("operation", "create-database-directory").
					Context("path", dir).
					Build()
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(store.Path), store.gormConfig())
	if err != nil {
		return store.dbError(err, "open", "")
	}

	// Each pooled connection to ":memory:" would be a separate database
	sqlDB, err := db.DB()
	if err != nil {
		return store.dbError(err, "open", "")
	}
	sqlDB.SetMaxOpenConns(1)

	store.DB = db
	if err := store.migrate(); err != nil {
		_ = store.Close()
		return err
	}

	store.logger.Info("database opened", logger.String("path", store.Path))
	return nil
}
