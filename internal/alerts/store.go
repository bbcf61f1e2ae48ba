// Package alerts keeps the user's configured price alerts and evaluates them
// against successive feed snapshots.
package alerts

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"fno-papertrade/internal/model"
)

// Store holds the alert list. Seeded at startup, mutated only through the
// REST surface; snapshots are copies.
type Store struct {
	mu     sync.RWMutex
	alerts []model.Alert
}

// NewStore creates a Store from a seed list.
func NewStore(seed []model.Alert) *Store {
	s := &Store{alerts: make([]model.Alert, 0, len(seed))}
	for _, a := range seed {
		a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
		s.alerts = append(s.alerts, a)
	}
	return s
}

// List returns an independent copy of the current alerts.
func (s *Store) List() []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]model.Alert, len(s.alerts))
	copy(cp, s.alerts)
	return cp
}

// Add registers a new alert, assigning it an ID, and returns the stored copy.
func (s *Store) Add(a model.Alert) model.Alert {
	a.ID = "alr_" + uuid.NewString()
	a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	s.mu.Unlock()
	return a
}

// Toggle flips the Active flag of the alert with the given ID.
func (s *Store) Toggle(id string) (model.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Active = !s.alerts[i].Active
			return s.alerts[i], true
		}
	}
	return model.Alert{}, false
}
