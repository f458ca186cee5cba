package store

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/profile/models"
	"rolodex/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newProfile(name, email string) *models.Profile {
	p, err := models.NewProfile(uuid.New(), name, email, time.Now())
	s.Require().NoError(err)
	return p
}

// TestCreationAndLookups verifies the store correctly creates and retrieves profiles.
func (s *MemoryStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds profile by ID", func() {
		p := s.newProfile("Ada", "ada@x.io")
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Ada", found.Name)
		s.Equal("ada@x.io", found.Email)
		s.Empty(found.Skills)
		s.Empty(found.Experience)
		s.Empty(found.Friends)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned documents do not alias store state", func() {
		p := s.newProfile("Alias", "alias@x.io")
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		found.Skills = append(found.Skills, "mutated")

		again, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Empty(again.Skills)
	})
}

// TestEmailUniqueness verifies case-insensitive email uniqueness enforcement.
func (s *MemoryStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newProfile("One", "dup@x.io")))

		err := s.store.Create(s.ctx, s.newProfile("Two", "dup@x.io"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("enforces case-insensitive uniqueness", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newProfile("Lower", "case@x.io")))

		err := s.store.Create(s.ctx, s.newProfile("Upper", "CASE@X.IO"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("replace cannot steal another profile's email", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newProfile("Owner", "owner@x.io")))
		thief := s.newProfile("Thief", "thief@x.io")
		s.Require().NoError(s.store.Create(s.ctx, thief))

		thief.Email = "owner@x.io"
		s.Require().ErrorIs(s.store.Replace(s.ctx, thief), sentinel.ErrConflict)
	})
}

// TestReplaceAndDelete verifies wholesale document writes and removal.
func (s *MemoryStoreSuite) TestReplaceAndDelete() {
	s.Run("replace persists the full document", func() {
		p := s.newProfile("Replace", "replace@x.io")
		s.Require().NoError(s.store.Create(s.ctx, p))

		p.AppendSkill("go", time.Now())
		s.Require().NoError(s.store.Replace(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal([]string{"go"}, found.Skills)
	})

	s.Run("replace returns ErrNotFound for missing profile", func() {
		s.Require().ErrorIs(
			s.store.Replace(s.ctx, s.newProfile("Ghost", "ghost@x.io")),
			sentinel.ErrNotFound,
		)
	})

	s.Run("delete removes the document", func() {
		p := s.newProfile("Gone", "gone@x.io")
		s.Require().NoError(s.store.Create(s.ctx, p))
		s.Require().NoError(s.store.Delete(s.ctx, p.ID))

		_, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete returns ErrNotFound for missing profile", func() {
		s.Require().ErrorIs(s.store.Delete(s.ctx, uuid.New()), sentinel.ErrNotFound)
	})
}

// TestFindAllOrder verifies listing is ordered by creation time.
func (s *MemoryStoreSuite) TestFindAllOrder() {
	base := time.Now()
	first, _ := models.NewProfile(uuid.New(), "First", "first@x.io", base)
	second, _ := models.NewProfile(uuid.New(), "Second", "second@x.io", base.Add(time.Second))
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	all, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("First", all[0].Name)
	s.Equal("Second", all[1].Name)
}

// TestFindSummaries verifies friend reference resolution, including dangling ids.
func (s *MemoryStoreSuite) TestFindSummaries() {
	s.Run("resolves ids in reference order", func() {
		a := s.newProfile("A", "a@x.io")
		b := s.newProfile("B", "b@x.io")
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))

		sums, err := s.store.FindSummaries(s.ctx, []uuid.UUID{b.ID, a.ID})
		s.Require().NoError(err)
		s.Require().Len(sums, 2)
		s.Equal("B", sums[0].Name)
		s.Equal("A", sums[1].Name)
	})

	s.Run("skips dangling ids without error", func() {
		a := s.newProfile("Dangle", "dangle@x.io")
		s.Require().NoError(s.store.Create(s.ctx, a))

		sums, err := s.store.FindSummaries(s.ctx, []uuid.UUID{uuid.New(), a.ID})
		s.Require().NoError(err)
		s.Require().Len(sums, 1)
		s.Equal("Dangle", sums[0].Name)
	})

	s.Run("empty id list resolves to empty slice", func() {
		sums, err := s.store.FindSummaries(s.ctx, nil)
		s.Require().NoError(err)
		s.Empty(sums)
	})
}

// TestReadModifyWriteRace demonstrates the documented last-write-wins hazard:
// two concurrent fetch→mutate→Replace sequences against the same profile can
// lose one update because each writes the whole document. The store must not
// accidentally serialize the sequences; losing updates here is the contract.
func TestReadModifyWriteRace(t *testing.T) {
	ctx := context.Background()
	const attempts = 200

	lost := 0
	for i := 0; i < attempts; i++ {
		st := NewInMemory()
		p, err := models.NewProfile(uuid.New(), "Race", "race@x.io", time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Create(ctx, p); err != nil {
			t.Fatal(err)
		}

		start := make(chan struct{})
		addSkill := func(skill string) {
			<-start
			doc, err := st.FindByID(ctx, p.ID)
			if err != nil {
				t.Error(err)
				return
			}
			// In production the gap between fetch and persist is a network
			// round-trip; yield here so the scheduler can interleave the same
			// way even on a single CPU.
			runtime.Gosched()
			doc.AppendSkill(skill, time.Now())
			if err := st.Replace(ctx, doc); err != nil {
				t.Error(err)
			}
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); addSkill("rust") }()
		go func() { defer wg.Done(); addSkill("go") }()
		close(start)
		wg.Wait()

		final, err := st.FindByID(ctx, p.ID)
		if err != nil {
			t.Fatal(err)
		}
		switch len(final.Skills) {
		case 1:
			lost++
		case 2:
			// both writes landed in sequence this round
		default:
			t.Fatalf("expected 1 or 2 skills, got %v", final.Skills)
		}
	}

	// The race fires with near-certainty at least once in 200 rounds. If it
	// never fires the store has started serializing read-modify-write cycles,
	// which would silently change the documented semantics.
	if lost == 0 {
		t.Fatalf("read-modify-write race never lost an update in %d attempts; store may be serializing document mutations", attempts)
	}
	t.Logf("lost %d of %d concurrent updates (expected behavior)", lost, attempts)
}
