package portfolio

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	portfolio *Portfolio
	lastSeen  time.Time
}

// Sessions maps session ids to their portfolios.
type Sessions struct {
	mu       sync.Mutex
	byID     map[string]*session
	currency string
	now      func() time.Time
}

// NewSessions creates an empty session store whose portfolios use currency.
func NewSessions(currency string) *Sessions {
	return &Sessions{
		byID:     make(map[string]*session),
		currency: currency,
		now:      time.Now,
	}
}

// Get returns the portfolio of id and refreshes its last-seen time.
func (s *Sessions) Get(id string) (*Portfolio, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.portfolio, true
}

// Ensure returns the portfolio of id, creating a new session when id is
// empty or unknown. The returned id is the one to hand back to the client.
func (s *Sessions) Ensure(id string) (string, *Portfolio) {
	if p, ok := s.Get(id); ok {
		return id, p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id = uuid.NewString()
	p := New(s.currency)
	s.byID[id] = &session{portfolio: p, lastSeen: s.now()}
	return id, p
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, sess := range s.byID {
		if sess.lastSeen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
