package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/MrSnakeDoc/drivemark/internal/filestore"
)

// Session is a signed-in user. It carries the delegated Google token
// and the cached id of the user's Drive container.
type Session struct {
	ID string `json:"id"`

	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`

	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenExpiry  time.Time `json:"tokenExpiry"`

	ContainerID string    `json:"containerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Credential returns the delegated credential held by the session.
func (s *Session) Credential() filestore.Credential {
	return filestore.Credential{AccessToken: s.AccessToken}
}

// SessionStore persists sessions and one-time OAuth state values.
// GetSession returns (nil, nil) for unknown or expired ids.
type SessionStore interface {
	SaveSession(ctx context.Context, s *Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error

	SaveState(ctx context.Context, state string, ttl time.Duration) error
	// TakeState consumes state and reports whether it was pending.
	TakeState(ctx context.Context, state string) (bool, error)

	Ping(ctx context.Context) error
}

// randomToken returns 32 random bytes, base64url encoded.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MemoryStore is a process-local SessionStore for development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	states   map[string]time.Time
	now      func() time.Time
}

type memoryEntry struct {
	data    Session
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		states:   make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = memoryEntry{data: *s, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, id)
		return nil, nil
	}
	s := e.data
	return &s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) SaveState(_ context.Context, state string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) TakeState(_ context.Context, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.states[state]
	delete(m.states, state)
	return ok && m.now().Before(exp), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

var _ SessionStore = (*MemoryStore)(nil)
