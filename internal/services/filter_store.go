// Package services – FilterStore
//
// This file implements the FilterStore, which persists the auto-apply
// filter criteria as a single named blob. Loads before any save return a
// well-defined default, never an error; saves replace the blob wholesale.
// Validation is the orchestrator's job: an invalid filter never reaches
// Save (see Orchestrator.StartAutoApply).
package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tverros/go-jobtrack-backend/internal/domain"
	"github.com/tverros/go-jobtrack-backend/internal/repo"
)

// filterBlobKey is the single named key holding the serialized filter.
const filterBlobKey = "auto_apply_filters"

// FilterStore persists and retrieves the automation filter criteria.
type FilterStore struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewFilterStore constructs a FilterStore over db.
func NewFilterStore(db *gorm.DB) *FilterStore {
	return &FilterStore{DB: db}
}

// Load returns the stored filter, or the default when nothing has been
// saved yet. A corrupt blob is treated like a missing one (with a warning)
// rather than wedging every caller on an undecodable value.
func (s *FilterStore) Load(ctx context.Context) (domain.AutomationFilter, error) {
	raw, err := repo.GetBlob(ctx, s.DB, filterBlobKey)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.DefaultAutomationFilter(), nil
	}
	if err != nil {
		return domain.AutomationFilter{}, err
	}

	var f domain.AutomationFilter
	if err := json.Unmarshal(raw, &f); err != nil {
		log.Warn().Err(err).Msg("filter store: stored blob is not decodable, using default")
		return domain.DefaultAutomationFilter(), nil
	}
	return f, nil
}

// Save persists f wholesale under the filter key, replacing any previous
// value. Callers pass normalized, validated filters only.
func (s *FilterStore) Save(ctx context.Context, f domain.AutomationFilter) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return repo.PutBlob(ctx, s.DB, filterBlobKey, raw)
}
