package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rolodex/pkg/domain-errors"
)

// Profile is the aggregate root for a user profile document.
//
// Invariants:
//   - Email is non-empty and unique across all profiles (store-enforced)
//   - Name is non-empty
//   - Experience entries and skills belong to exactly this profile
//
// Friends holds weak references: adding A→B does not add B→A, and deleting a
// profile does not scrub its id from other profiles' friend lists. Readers
// resolve friend ids to summaries and skip ids that no longer exist.
type Profile struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Experience  []Experience `json:"experience"`
	Skills      []string     `json:"skills"`
	Information Information  `json:"information"`
	Friends     []uuid.UUID  `json:"friends"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Experience is a work-history entry embedded in a profile. All descriptive
// fields are optional; the id is assigned on append when the client omits it.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	Dates       string    `json:"dates,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Information is the optional free-form sub-record of a profile.
type Information struct {
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// FriendSummary is the projection returned when friend references are
// resolved for read endpoints.
type FriendSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ProfileView is a Profile with its friend ids resolved to summaries.
// Dangling references (friend deleted after the link was made) are omitted.
type ProfileView struct {
	Profile
	Friends []FriendSummary `json:"friends"`
}

// NewProfile constructs a profile with empty sub-collections. Name and email
// are the only caller-supplied fields at creation time.
func NewProfile(id uuid.UUID, name, email string, now time.Time) (*Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	return &Profile{
		ID:         id,
		Name:       name,
		Email:      email,
		Experience: []Experience{},
		Skills:     []string{},
		Friends:    []uuid.UUID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AppendExperience adds an entry verbatim, assigning an id only when the
// caller left it zero so later removal by id is possible.
func (p *Profile) AppendExperience(exp Experience, now time.Time) {
	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}
	p.Experience = append(p.Experience, exp)
	p.UpdatedAt = now
}

// RemoveExperience filters out entries with the given id. Removing an id that
// matches nothing is a silent no-op; the bool reports whether anything changed.
func (p *Profile) RemoveExperience(expID uuid.UUID, now time.Time) bool {
	kept := p.Experience[:0]
	for _, e := range p.Experience {
		if e.ID != expID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(p.Experience) {
		return false
	}
	p.Experience = kept
	p.UpdatedAt = now
	return true
}

// AppendSkill adds a skill string. Duplicates are allowed; the observed
// contract never deduplicates.
func (p *Profile) AppendSkill(skill string, now time.Time) {
	p.Skills = append(p.Skills, skill)
	p.UpdatedAt = now
}

// RemoveSkill filters out exact string matches. Silent no-op when absent.
func (p *Profile) RemoveSkill(skill string, now time.Time) bool {
	kept := p.Skills[:0]
	for _, s := range p.Skills {
		if s != skill {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(p.Skills) {
		return false
	}
	p.Skills = kept
	p.UpdatedAt = now
	return true
}

// AppendFriend records a one-directional reference to another profile. No
// duplicate check and no reciprocal link, matching the observed contract.
func (p *Profile) AppendFriend(friendID uuid.UUID, now time.Time) {
	p.Friends = append(p.Friends, friendID)
	p.UpdatedAt = now
}

// RemoveFriend filters out exact id matches. Silent no-op when absent.
func (p *Profile) RemoveFriend(friendID uuid.UUID, now time.Time) bool {
	kept := p.Friends[:0]
	for _, f := range p.Friends {
		if f != friendID {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(p.Friends) {
		return false
	}
	p.Friends = kept
	p.UpdatedAt = now
	return true
}

// Rename replaces name and email only, leaving every other field untouched.
func (p *Profile) Rename(name, email string, now time.Time) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	p.Name = name
	p.Email = email
	p.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so stores can hand out documents without aliasing
// their internal state.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Experience = append([]Experience(nil), p.Experience...)
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Friends = append([]uuid.UUID(nil), p.Friends...)
	return &cp
}
