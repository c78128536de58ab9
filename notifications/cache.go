package notifications

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// FeedKey is the single durable key the notification feed lives under.
const FeedKey = "restaurant_notifications"

// Cache is durable local storage for opaque blobs. Every Save is a full
// overwrite of the key; there is no append path.
type Cache interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
}

type cacheEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"type:text;column:value"`
}

func (cacheEntry) TableName() string {
	return "cache_entries"
}

// SQLiteCache implements Cache over a local sqlite file.
type SQLiteCache struct {
	DB *gorm.DB
}

// OpenCache opens (or creates) the cache file and ensures its schema.
func OpenCache(path string) (*SQLiteCache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewSQLiteCache(db)
}

// NewSQLiteCache wraps an existing gorm handle (tests hand in an
// in-memory one).
func NewSQLiteCache(db *gorm.DB) (*SQLiteCache, error) {
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteCache{DB: db}, nil
}

func (c *SQLiteCache) Load(key string) ([]byte, bool, error) {
	var entry cacheEntry
	err := c.DB.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (c *SQLiteCache) Save(key string, value []byte) error {
	entry := cacheEntry{Key: key, Value: string(value)}
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}
