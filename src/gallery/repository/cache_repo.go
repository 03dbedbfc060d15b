package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ domain.CacheRepository = (*Repo)(nil)

// ---------- ENTRIES ----------

type CacheEntry struct {
	CacheKey  string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// ---------- REPO ----------

type Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, log *logger.Logger) *Repo {
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &Repo{db: db, log: log}
}

// ---------- KV ----------

func (r *Repo) Get(ctx context.Context, key string) (string, error) {
	var e CacheEntry
	if err := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrEntryNotFound
		}
		return "", err
	}
	return e.Value, nil
}

// Set overwrites any previous value; last writer wins.
func (r *Repo) Set(ctx context.Context, key, value string) error {
	model := CacheEntry{CacheKey: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}

func (r *Repo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("cache_key IN ?", keys).Delete(&CacheEntry{}).Error
}

func (r *Repo) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&CacheEntry{}).
		Where("cache_key LIKE ?", prefix+"%").
		Order("cache_key").
		Pluck("cache_key", &keys).Error; err != nil {
		return nil, err
	}
	// '_' is a LIKE wildcard and the key prefixes are full of them
	out := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}
