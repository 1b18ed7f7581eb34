package datastore

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormStore holds the key/value logic shared by the SQL backends
type gormStore struct {
	DB      *gorm.DB
	dialect string
	logger  logger.Logger
}

func (s *gormStore) gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(s.logger.Module("gorm"), slowQueryThreshold),
	}
}

func (s *gormStore) migrate() error {
	if err := s.DB.AutoMigrate(&Entry{}); err != nil {
		return s.dbError(err, "migrate", "")
	}
	s.logger.Debug("schema migrated", logger.String("dialect", s.dialect))
	return nil
}

func (s *gormStore) Get(key string) ([]byte, bool, error) {
	if s.DB == nil {
		return nil, false, errNotOpen(s.dialect)
	}
	var entry Entry
	err := s.DB.Where("name = ?", key).Limit(1).Find(&entry).Error
	if err != nil {
		return nil, false, s.dbError(err, "get", key)
	}
	if entry.Name == "" {
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (s *gormStore) Set(key string, value []byte) error {
	if s.DB == nil {
		return errNotOpen(s.dialect)
	}
	if value == nil {
		value = []byte{}
	}
	entry := Entry{Name: key, Value: value}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return s.dbError(err, "set", key)
	}
	return nil
}

func (s *gormStore) Delete(key string) error {
	if s.DB == nil {
		return errNotOpen(s.dialect)
	}
	if err := s.DB.Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return s.dbError(err, "delete", key)
	}
	return nil
}

func (s *gormStore) Keys() ([]string, error) {
	if s.DB == nil {
		return nil, errNotOpen(s.dialect)
	}
	var keys []string
	if err := s.DB.Model(&Entry{}).Order("name").Pluck("name", &keys).Error; err != nil {
		return nil, s.dbError(err, "keys", "")
	}
	return keys, nil
}

func (s *gormStore) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return s.dbError(err, "close", "")
	}
	s.DB = nil
	if err := sqlDB.Close(); err != nil {
		return s.dbError(err, "close", "")
	}
	return nil
}

func (s *gormStore) dbError(err error, operation, key string) error {
	b := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("dialect", s.dialect).
		Context("operation", operation)
	if key != "" {
		b = b.Context("key", key)
	}
	return b.Build()
}

func errNotOpen(dialect string) error {
	return errors.Newf("database connection is not initialized").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("dialect", dialect).
		Build()
}
