// Package service orchestrates profile operations. Every operation is a
// single fetch → mutate → persist sequence over one document; there is no
// rollback, and a persist failure simply discards the in-memory mutation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rolodex/internal/audit"
	"rolodex/internal/platform/metrics"
	"rolodex/internal/profile/models"
	"rolodex/internal/profile/store"
	dErrors "rolodex/pkg/domain-errors"
	"rolodex/pkg/platform/sentinel"
)

// Service exposes one method per HTTP operation on the profile resource.
type Service struct {
	profiles store.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  *audit.Publisher
	now      func() time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(profiles store.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every profile with friend references resolved to summaries.
func (s *Service) List(ctx context.Context) ([]*models.ProfileView, error) {
	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	views := make([]*models.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		view, err := s.resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one profile with friend references resolved.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ProfileView, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	return s.resolve(ctx, p)
}

// Create inserts a new profile holding only name and email; every
// sub-collection starts empty.
func (s *Service) Create(ctx context.Context, name, email string) (*models.Profile, error) {
	p, err := models.NewProfile(uuid.New(), name, email, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}

	s.emit(ctx, audit.ProfileEvent(p.ID, audit.ActionProfileCreated, p.Email))
	s.metrics.IncrementProfilesCreated()
	return p, nil
}

// Update replaces name and email only; all other fields stay untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, email string) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	if err := p.Rename(name, email, s.now()); err != nil {
		return nil, err
	}
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}

	s.emit(ctx, audit.ProfileEvent(p.ID, audit.ActionProfileUpdated, p.Email))
	return p, nil
}

// Delete removes the profile document. Friend references pointing at the
// deleted profile are left dangling; readers skip them on resolution.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return wrapProfileErr(err)
	}

	s.emit(ctx, audit.ProfileEvent(id, audit.ActionProfileDeleted, ""))
	s.metrics.IncrementProfilesDeleted()
	return nil
}

// AddExperience appends the entry to the profile's experience list.
func (s *Service) AddExperience(ctx context.Context, id uuid.UUID, exp models.Experience) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	p.AppendExperience(exp, s.now())
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// RemoveExperience filters out the entry with the given id. An id matching
// nothing is a silent no-op and still succeeds.
func (s *Service) RemoveExperience(ctx context.Context, id, expID uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	if !p.RemoveExperience(expID, s.now()) {
		return p, nil
	}
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// AddSkill appends the skill string without deduplication.
func (s *Service) AddSkill(ctx context.Context, id uuid.UUID, skill string) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	p.AppendSkill(skill, s.now())
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// RemoveSkill filters out exact matches; silent no-op when absent.
func (s *Service) RemoveSkill(ctx context.Context, id uuid.UUID, skill string) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	if !p.RemoveSkill(skill, s.now()) {
		return p, nil
	}
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// AddFriend links this profile to another. Both profiles must exist at link
// time; the reference is one-directional and the existence check and persist
// are two independent store calls with no atomicity between them.
func (s *Service) AddFriend(ctx context.Context, id, friendID uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapFriendLinkErr(err)
	}
	if _, err := s.profiles.FindByID(ctx, friendID); err != nil {
		return nil, wrapFriendLinkErr(err)
	}
	p.AppendFriend(friendID, s.now())
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// RemoveFriend unlinks the reference; silent no-op when absent.
func (s *Service) RemoveFriend(ctx context.Context, id, friendID uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	if !p.RemoveFriend(friendID, s.now()) {
		return p, nil
	}
	if err := s.profiles.Replace(ctx, p); err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

func (s *Service) resolve(ctx context.Context, p *models.Profile) (*models.ProfileView, error) {
	friends, err := s.profiles.FindSummaries(ctx, p.Friends)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	return &models.ProfileView{Profile: *p, Friends: friends}, nil
}

// emit records an audit event. Trail failures are logged, never surfaced to
// the caller.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"profile_id", event.ProfileID,
			"error", err,
		)
	}
}

func wrapProfileErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "profile not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "email already in use")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "profile store failure")
	}
}

func wrapFriendLinkErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "profile or friend not found")
	}
	return wrapProfileErr(err)
}
