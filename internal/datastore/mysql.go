package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	gormStore
	Settings conf.MySQLSettings
}

// NewMySQLStore returns an unopened MySQL store
func NewMySQLStore(settings conf.MySQLSettings, log logger.Logger) *MySQLStore {
	if log == nil {
		log = logger.Discard()
	}
	return &MySQLStore{
		gormStore: gormStore{dialect: "mysql", logger: log.Module("mysql")},
		Settings:  settings,
	}
}

func (store *MySQLStore) dsn() string {
	s := store.Settings
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		s.Username, s.Password, s.Host, s.Port, s.Database)
	if s.Timeout > 0 {
		dsn += "&timeout=" + s.Timeout.String()
	}
	return dsn
}

// Open connects to the server and migrates the schema
func (store *MySQLStore) Open() error {
	db, err := gorm.Open(mysql.Open(store.dsn()), store.gormConfig())
	if err != nil {
		store.logger.Error("failed to open MySQL database",
			logger.String("host", store.Settings.Host),
			logger.Int("port", store.Settings.Port),
			logger.String("database", store.Settings.Database),
			logger.Error(err))
		return store.dbError(err, "open", "")
	}

	store.DB = db
	if err := store.migrate(); err != nil {
		_ = store.Close()
		return err
	}

	store.logger.Info("database opened",
		logger.String("host", store.Settings.Host),
		logger.String("database", store.Settings.Database))
	return nil
}
