package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sink receives audit events. The in-memory store keeps them queryable for
// tests and development; the Kafka sink ships them off-process.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and delegates
// persistence to a Sink so tests can swap sinks easily.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.sink.Append(ctx, event)
}

// ProfileEvent is a convenience constructor for lifecycle events.
func ProfileEvent(profileID uuid.UUID, action, detail string) Event {
	return Event{ProfileID: profileID, Action: action, Detail: detail}
}
