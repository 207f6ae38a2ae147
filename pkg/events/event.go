package events

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle event types.
const (
	TypeSessionCreated     = "session.created"
	TypeSessionRenewed     = "session.renewed"
	TypeSessionInvalidated = "session.invalidated"
	TypeSessionEnded       = "session.ended"
)

// Event represents a session lifecycle change published to subscribers.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserEmail  string    `json:"user_email,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event of the given type.
func NewEvent(typ, userEmail, reason string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		UserEmail:  userEmail,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}
