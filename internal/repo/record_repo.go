// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ApplicationRecord model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Change notification lives a layer up,
// in the record store.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// recordsQuery composes the scoped base query: always by user, optionally
// narrowed to a single status. An empty status means "all statuses".
func recordsQuery(ctx context.Context, db *gorm.DB, userID string, status domain.Status) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.ApplicationRecord{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q
}

// UpsertRecord inserts a record or replaces the existing row with the same
// primary key wholesale (the scanner's payload is authoritative). A record
// arriving without an ID gets a fresh UUID.
func UpsertRecord(ctx context.Context, db *gorm.DB, rec *domain.ApplicationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// DeleteRecord removes a record by ID, enforcing user ownership.
// Returns ErrNotFound when no row matched.
func DeleteRecord(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ApplicationRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecords returns the full matching set for a user, newest mail first.
// SQLite sorts NULL smallest, so records without a timestamp end up last
// under DESC, which is the order the dashboard wants.
func ListRecords(ctx context.Context, db *gorm.DB, userID string, status domain.Status) ([]domain.ApplicationRecord, error) {
	var out []domain.ApplicationRecord
	err := recordsQuery(ctx, db, userID, status).
		Order("received_at DESC").
		Order("id").
		Find(&out).Error
	return out, err
}

// ListRecordsPage returns a page of records for a user.
func ListRecordsPage(ctx context.Context, db *gorm.DB, userID string, status domain.Status, offset, limit int) ([]domain.ApplicationRecord, error) {
	var out []domain.ApplicationRecord
	err := recordsQuery(ctx, db, userID, status).
		Order("received_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountRecords returns the total number of matching records for pagination.
func CountRecords(ctx context.Context, db *gorm.DB, userID string, status domain.Status) (int64, error) {
	var n int64
	err := recordsQuery(ctx, db, userID, status).Count(&n).Error
	return n, err
}

// GetRecord fetches a single record by ID, enforcing user ownership.
func GetRecord(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ApplicationRecord, error) {
	var rec domain.ApplicationRecord
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
