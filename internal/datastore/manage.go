package datastore

import (
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// New builds and opens the store selected by settings
func New(settings *conf.StorageSettings, log logger.Logger) (Interface, error) {
	if settings == nil {
		return nil, errors.Newf("storage settings cannot be nil").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if log == nil {
		log = logger.Discard()
	}
	log = log.Module("datastore")

	var store Interface
	switch settings.Type {
	case conf.StorageSQLite:
		store = NewSQLiteStore(settings.SQLite.Path, log)
	case conf.StorageMySQL:
		store = NewMySQLStore(settings.MySQL, log)
	case conf.StorageMemory:
		store = NewMemoryStore()
	default:
		return nil, errors.Newf("unsupported storage type %q", settings.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := store.Open(); err != nil {
		return nil, err
	}
	return store, nil
}
