package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps the trail in process. Default sink when no Kafka
// brokers are configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByProfile returns the trail for one profile in append order.
func (s *InMemoryStore) ListByProfile(_ context.Context, profileID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}
