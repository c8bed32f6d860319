// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
)

// RecordStats returns aggregate metadata for a user's application records:
// the total number of matching rows and the maximum UpdatedAt timestamp
// among them. An empty status means "all statuses".
//
// It executes two lightweight queries against the job_applications table.
// When nothing matches, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total matching records for userID
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func RecordStats(ctx context.Context, db *gorm.DB, userID string, status domain.Status) (count int64, maxUpdatedAt *time.Time, err error) {
	q := recordsQuery(ctx, db, userID, status)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
