package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"rolodex/internal/profile/models"
	"rolodex/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map of profile documents. It backs unit tests
// and local development runs without a database. Documents are deep-copied on
// the way in and out so callers never alias store state; the lock covers a
// single call only, preserving the document-level write race described in the
// package doc.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return sentinel.ErrConflict
		}
	}
	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Replace(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for id, existing := range s.profiles {
		if id != p.ID && strings.EqualFold(existing.Email, p.Email) {
			return sentinel.ErrConflict
		}
	}
	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *InMemory) FindSummaries(_ context.Context, ids []uuid.UUID) ([]models.FriendSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FriendSummary, 0, len(ids))
	for _, id := range ids {
		p, ok := s.profiles[id]
		if !ok {
			// Dangling reference: the friend was deleted after linking.
			continue
		}
		out = append(out, models.FriendSummary{ID: p.ID, Name: p.Name, Email: p.Email})
	}
	return out, nil
}
