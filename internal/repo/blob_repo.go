// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the named
// key-value blobs the core persists: the automation filter and the bearer
// credential. Values are written wholesale; there is no partial update.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

// GetBlob returns the value stored under key, or ErrNotFound.
func GetBlob(ctx context.Context, db *gorm.DB, key string) ([]byte, error) {
	var b domain.Blob
	err := db.WithContext(ctx).Where("key = ?", key).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

// PutBlob stores value under key, replacing any previous value.
func PutBlob(ctx context.Context, db *gorm.DB, key string, value []byte) error {
	b := domain.Blob{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&b).Error
}

// DeleteBlob removes the value under key. Deleting a missing key is a no-op.
func DeleteBlob(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Where("key = ?", key).Delete(&domain.Blob{}).Error
}
