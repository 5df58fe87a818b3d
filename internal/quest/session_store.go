package quest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KayJJUNE/steam-bot/internal/domain"
)

// SessionStore holds the short-lived wizard state of a guided step: whether
// the user acknowledged visiting the external page, and how many automatic
// checks have failed since. The visited flag is advisory only; it orders the
// confirmation UI and is never a security control. State expires on its own
// so an abandoned flow restarts cleanly.
type SessionStore interface {
	MarkVisited(ctx context.Context, discordID int64, step domain.Step) error
	Visited(ctx context.Context, discordID int64, step domain.Step) (bool, error)
	RecordFailedCheck(ctx context.Context, discordID int64, step domain.Step) error
	FailedChecks(ctx context.Context, discordID int64, step domain.Step) (int, error)
	Clear(ctx context.Context, discordID int64, step domain.Step) error
}

func sessionKey(discordID int64, step domain.Step) string {
	return fmt.Sprintf("quest:session:%d:%d", discordID, int(step))
}

type memorySession struct {
	visited   bool
	failed    int
	expiresAt time.Time
}

// MemorySessionStore is the default store for single-process deployments.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*memorySession
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) get(key string) *memorySession {
	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, key)
		return nil
	}
	return sess
}

func (s *MemorySessionStore) MarkVisited(_ context.Context, discordID int64, step domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(discordID, step)
	sess := s.get(key)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[key] = sess
	}
	sess.visited = true
	sess.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemorySessionStore) Visited(_ context.Context, discordID int64, step domain.Step) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionKey(discordID, step))
	return sess != nil && sess.visited, nil
}

func (s *MemorySessionStore) RecordFailedCheck(_ context.Context, discordID int64, step domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(discordID, step)
	sess := s.get(key)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[key] = sess
	}
	sess.failed++
	sess.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemorySessionStore) FailedChecks(_ context.Context, discordID int64, step domain.Step) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.get(sessionKey(discordID, step))
	if sess == nil {
		return 0, nil
	}
	return sess.failed, nil
}

func (s *MemorySessionStore) Clear(_ context.Context, discordID int64, step domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(discordID, step))
	return nil
}
