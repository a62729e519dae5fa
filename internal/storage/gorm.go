package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Item is one entry of the client's persistent local store.
type Item struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// GormStore is the durable key/value store backing preferences and the session token.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(path string) (*GormStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	newLogger := gormlogger.New(
		log.New(os.Stderr, "", log.LstdFlags),
		gormlogger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  gormlogger.Error,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &GormStore{db: db}, nil
}

// GetItem returns the stored value and whether the key exists.
func (s *GormStore) GetItem(key string) (string, bool, error) {
	var item Item
	result := s.db.First(&item, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error querying item %s: %w", key, result.Error)
	}
	return item.Value, true, nil
}

func (s *GormStore) SetItem(key, value string) error {
	var item Item
	result := s.db.First(&item, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return s.db.Create(&Item{Key: key, Value: value}).Error
		}
		return result.Error
	}

	return s.db.Model(&item).Update("value", value).Error
}

func (s *GormStore) RemoveItem(key string) error {
	return s.db.Delete(&Item{}, "key = ?", key).Error
}

// Keys lists every stored key in lexical order.
func (s *GormStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Model(&Item{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
