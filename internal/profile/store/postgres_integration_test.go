//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/platform/postgres"
	"rolodex/internal/profile/models"
	"rolodex/internal/profile/store"
	"rolodex/pkg/platform/sentinel"
	"rolodex/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())

	// Reuse the production bootstrap so the schema under test is the real one.
	db, err := postgres.Open(context.Background(), s.postgres.URL)
	s.Require().NoError(err)
	s.store = store.NewPostgres(db)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "profiles"))
}

func newTestProfile(name, email string) *models.Profile {
	p, _ := models.NewProfile(uuid.New(), name, email, time.Now().UTC().Truncate(time.Microsecond))
	return p
}

// TestDocumentRoundTrip verifies the JSONB document survives storage intact.
func (s *PostgresStoreSuite) TestDocumentRoundTrip() {
	ctx := context.Background()
	p := newTestProfile("Round Trip", "roundtrip@x.io")
	p.AppendSkill("go", p.CreatedAt)
	p.AppendExperience(models.Experience{Title: "Engineer", Company: "Acme", Dates: "2020-2024"}, p.CreatedAt)
	p.Information = models.Information{Bio: "bio", Location: "Lyon", Website: "https://x.io"}
	friendID := uuid.New()
	p.AppendFriend(friendID, p.CreatedAt)

	s.Require().NoError(s.store.Create(ctx, p))

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, found.Name)
	s.Equal(p.Skills, found.Skills)
	s.Require().Len(found.Experience, 1)
	s.Equal("Engineer", found.Experience[0].Title)
	s.Equal(p.Information, found.Information)
	s.Equal([]uuid.UUID{friendID}, found.Friends)
}

// TestConcurrentUniqueEmailViolation verifies that concurrent creates with the
// same email result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueEmailViolation() {
	ctx := context.Background()
	email := "concurrent-" + uuid.NewString() + "@x.io"
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newTestProfile("Concurrent", email))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict")
}

// TestCaseInsensitiveEmailUniqueness verifies the lower(email) index.
func (s *PostgresStoreSuite) TestCaseInsensitiveEmailUniqueness() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestProfile("Lower", "case@x.io")))

	err := s.store.Create(ctx, newTestProfile("Upper", "CASE@X.IO"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

// TestReplaceSemantics verifies wholesale writes and the not-found path.
func (s *PostgresStoreSuite) TestReplaceSemantics() {
	ctx := context.Background()

	s.Run("replace overwrites the whole document", func() {
		p := newTestProfile("Replace", "replace@x.io")
		s.Require().NoError(s.store.Create(ctx, p))

		p.AppendSkill("rust", time.Now())
		p.AppendSkill("go", time.Now())
		s.Require().NoError(s.store.Replace(ctx, p))

		found, err := s.store.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal([]string{"rust", "go"}, found.Skills)
	})

	s.Run("replace of a missing profile is not found", func() {
		err := s.store.Replace(ctx, newTestProfile("Ghost", "ghost@x.io"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("replace cannot steal another profile's email", func() {
		s.Require().NoError(s.store.Create(ctx, newTestProfile("Owner", "owner@x.io")))
		thief := newTestProfile("Thief", "thief@x.io")
		s.Require().NoError(s.store.Create(ctx, thief))

		thief.Email = "owner@x.io"
		s.Require().ErrorIs(s.store.Replace(ctx, thief), sentinel.ErrConflict)
	})
}

// TestDeleteAndDangling verifies delete, its not-found path, and that friend
// resolution skips ids whose profiles are gone.
func (s *PostgresStoreSuite) TestDeleteAndDangling() {
	ctx := context.Background()

	a := newTestProfile("Keeper", "keeper@x.io")
	b := newTestProfile("Doomed", "doomed@x.io")
	s.Require().NoError(s.store.Create(ctx, a))
	s.Require().NoError(s.store.Create(ctx, b))

	a.AppendFriend(b.ID, time.Now())
	s.Require().NoError(s.store.Replace(ctx, a))

	s.Require().NoError(s.store.Delete(ctx, b.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, b.ID), sentinel.ErrNotFound)

	// The document still carries the dangling id (no cascade)...
	found, err := s.store.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{b.ID}, found.Friends)

	// ...and resolution silently yields nothing for it.
	sums, err := s.store.FindSummaries(ctx, found.Friends)
	s.Require().NoError(err)
	s.Empty(sums)
}

// TestFindAllAndSummaries verifies listing order and reference-order resolution.
func (s *PostgresStoreSuite) TestFindAllAndSummaries() {
	ctx := context.Background()

	first := newTestProfile("First", "first@x.io")
	second := newTestProfile("Second", "second@x.io")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	s.Require().NoError(s.store.Create(ctx, second))
	s.Require().NoError(s.store.Create(ctx, first))

	all, err := s.store.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("First", all[0].Name)
	s.Equal("Second", all[1].Name)

	sums, err := s.store.FindSummaries(ctx, []uuid.UUID{second.ID, first.ID})
	s.Require().NoError(err)
	s.Require().Len(sums, 2)
	s.Equal("Second", sums[0].Name)
	s.Equal("First", sums[1].Name)
}
