// Package services – CredentialStore
//
// The bearer credential is obtained out-of-band by the identity provider's
// OAuth flow and handed to this core at sign-in. It is stored verbatim
// under a single named key, read back for mailbox-sync dispatch, and
// cleared on sign-out. The core never interprets or refreshes it.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tverros/go-jobtrack-backend/internal/repo"
)

// credentialBlobKey is the single named key holding the bearer token.
const credentialBlobKey = "access_credential"

// CredentialStore persists the opaque bearer credential for the session.
type CredentialStore struct {
	DB *gorm.DB
}

// NewCredentialStore constructs a CredentialStore over db.
func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{DB: db}
}

// Load returns the stored credential, or "" when none is stored.
func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	raw, err := repo.GetBlob(ctx, s.DB, credentialBlobKey)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Save stores the credential captured at sign-in.
func (s *CredentialStore) Save(ctx context.Context, credential string) error {
	return repo.PutBlob(ctx, s.DB, credentialBlobKey, []byte(credential))
}

// Clear removes the credential. Called on sign-out; idempotent.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return repo.DeleteBlob(ctx, s.DB, credentialBlobKey)
}
