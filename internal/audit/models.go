package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded on the profile lifecycle trail.
const (
	ActionProfileCreated = "profile.created"
	ActionProfileUpdated = "profile.updated"
	ActionProfileDeleted = "profile.deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ProfileID uuid.UUID `json:"profile_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}
