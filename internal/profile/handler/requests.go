package handler

import (
	"strings"

	"github.com/google/uuid"

	"rolodex/internal/profile/models"
	dErrors "rolodex/pkg/domain-errors"
)

// CreateProfileRequest carries the only two fields a profile starts with.
type CreateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims surrounding whitespace in place.
func (r *CreateProfileRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate enforces required-field presence. Nothing beyond presence is
// checked; email format validation is out of scope.
func (r *CreateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	return nil
}

// UpdateProfileRequest replaces name and email only.
type UpdateProfileRequest = CreateProfileRequest

// AddExperienceRequest mirrors the embedded experience entry. Every field is
// optional; an omitted id gets assigned server-side.
type AddExperienceRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToModel converts the request to the embedded entry. A malformed id is a
// bad request rather than a store error.
func (r *AddExperienceRequest) ToModel() (models.Experience, error) {
	exp := models.Experience{
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.Company),
		Dates:       strings.TrimSpace(r.Dates),
		Description: strings.TrimSpace(r.Description),
	}
	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return models.Experience{}, dErrors.New(dErrors.CodeBadRequest, "experience id must be a valid uuid")
		}
		exp.ID = id
	}
	return exp, nil
}

// AddSkillRequest appends one skill string.
type AddSkillRequest struct {
	Skill string `json:"skill"`
}

func (r *AddSkillRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Skill) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "skill is required")
	}
	return nil
}

// AddFriendRequest links this profile to another by id.
type AddFriendRequest struct {
	FriendID string `json:"friendId"`
}

// ParseFriendID validates and parses the referenced profile id.
func (r *AddFriendRequest) ParseFriendID() (uuid.UUID, error) {
	if r == nil || strings.TrimSpace(r.FriendID) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "friendId is required")
	}
	id, err := uuid.Parse(strings.TrimSpace(r.FriendID))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "friendId must be a valid uuid")
	}
	return id, nil
}
