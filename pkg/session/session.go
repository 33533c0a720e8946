// Package session keeps caller-owned generators alive between HTTP requests.
//
// A session owns exactly one [generator.Generator]. Clients create a session
// from a preset, then edit and render its graph through later requests; the
// graph never lives in process-wide state.
//
// # Expiration
//
// Sessions expire after a period of inactivity. Every successful [Store.Get]
// pushes the expiration forward by the store's TTL. Expired sessions are
// invisible to Get and are reclaimed by [Store.Cleanup]:
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	go store.Janitor(ctx, time.Minute)
//
//	sess := session.New("noise-map", g, store.TTL())
//	store.Set(ctx, sess)
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
)

// DefaultTTL is the default inactivity timeout.
const DefaultTTL = time.Hour

// Session binds a generator to an ID.
type Session struct {
	ID        string
	Preset    string
	Generator *generator.Generator
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New creates a session with a random ID.
func New(preset string, g *generator.Generator, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Preset:    preset,
		Generator: g,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a live session and extends its expiration.
	// Missing and expired sessions are ErrCodeSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any session with the same ID.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is
	// ErrCodeSessionNotFound.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore is an in-process Store guarded by a mutex.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	logger   *log.Logger
}

// NewMemoryStore creates a store whose sessions live for ttl after their
// last access. A ttl of zero or less uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// SetLogger sets the logger used by the janitor.
func (s *MemoryStore) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// TTL returns the inactivity timeout.
func (s *MemoryStore) TTL() time.Duration { return s.ttl }

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.IsExpired() {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.ExpiresAt = time.Now().Add(s.ttl)
	return sess, nil
}

func (s *MemoryStore) Set(_ context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "session must have an ID")
	}
	if sess.Generator == nil {
		return errors.New(errors.ErrCodeInvalidInput, "session %q has no generator", sess.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Janitor runs Cleanup every interval until ctx is done.
func (s *MemoryStore) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, _ := s.Cleanup(ctx); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
