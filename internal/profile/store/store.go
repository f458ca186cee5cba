// Package store persists profile documents. Both implementations intentionally
// write documents wholesale: a mutation is fetch → mutate in memory → Replace,
// so two concurrent mutations of the same profile race at document granularity
// and the last write wins. That read-modify-write semantics is part of the
// service contract (demonstrated in the memory store tests), not an oversight;
// switching to atomic array updates would change observable behavior.
package store

import (
	"context"

	"github.com/google/uuid"

	"rolodex/internal/profile/models"
)

// Store is the document-store contract the profile service depends on.
// Implementations return sentinel.ErrNotFound for missing documents and
// sentinel.ErrConflict for email uniqueness violations.
type Store interface {
	// Create inserts a new profile, enforcing email uniqueness.
	Create(ctx context.Context, p *models.Profile) error
	// FindByID returns one profile document.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	// FindAll returns every profile, ordered by creation time.
	FindAll(ctx context.Context) ([]*models.Profile, error)
	// Replace overwrites the stored document with p (matched by p.ID).
	Replace(ctx context.Context, p *models.Profile) error
	// Delete removes the document. No cascade into other profiles' friend lists.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindSummaries resolves ids to {id,name,email} projections, silently
	// skipping ids that no longer exist (dangling friend references).
	FindSummaries(ctx context.Context, ids []uuid.UUID) ([]models.FriendSummary, error)
}
