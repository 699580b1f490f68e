package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreFull       = errors.New("session store is full")
)

// ApplyFunc advances a state by one token.
type ApplyFunc func(engine.State, string) engine.State

// session is one keypad's current-state cell. mu serialises key presses so a
// transition completes before the next one starts.
type session struct {
	mu      sync.Mutex
	state   engine.State
	touched time.Time
	gone    bool
}

// Store holds calculator sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session

	maxSessions int
	ttl         time.Duration
	now         func() time.Time
}

// NewStore creates a store that holds at most maxSessions sessions and
// considers a session idle after ttl without key presses.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*session),
		maxSessions: maxSessions,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create starts a session in the identity state.
func (s *Store) Create() (string, engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		return "", engine.State{}, ErrStoreFull
	}

	id := uuid.New().String()
	state := engine.New()
	s.sessions[id] = &session{state: state, touched: s.now()}
	activeSessions.Inc()

	return id, state, nil
}

// Get returns the current state of a session.
func (s *Store) Get(id string) (engine.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.gone {
		return engine.State{}, ErrSessionNotFound
	}
	return sess.state, nil
}

// Press feeds tokens to a session in order and returns the resulting state.
// A nil apply uses engine.Apply.
func (s *Store) Press(id string, tokens []string, apply ApplyFunc) (engine.State, error) {
	if apply == nil {
		apply = engine.Apply
	}

	sess, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.gone {
		return engine.State{}, ErrSessionNotFound
	}

	for _, tok := range tokens {
		sess.state = apply(sess.state, tok)
	}
	sess.touched = s.now()

	return sess.state, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.remove(id, sess)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than the store ttl and returns how many
// were removed.
func (s *Store) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			s.remove(id, sess)
			evicted++
		}
	}
	return evicted
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				observability.Logger.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// remove must be called with s.mu held.
func (s *Store) remove(id string, sess *session) {
	sess.mu.Lock()
	sess.gone = true
	sess.mu.Unlock()

	delete(s.sessions, id)
	activeSessions.Dec()
}
