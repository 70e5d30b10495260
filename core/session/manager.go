package session

import (
	"context"
	"errors"
	"time"
)

// Manager handles session lifecycle including creation, retrieval, and expiration.
type Manager struct {
	store  Store
	config Config
}

// NewManager creates a session manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{store: store, config: cfg}
}

// Load retrieves the session for token. Expired sessions are deleted and
// reported as ErrExpired.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		_ = m.store.Delete(ctx, token)
		return nil, ErrExpired
	}

	return sess, nil
}

// LoadOrCreate is Load falling back to a new session when token is missing,
// unknown or expired.
func (m *Manager) LoadOrCreate(ctx context.Context, token string) (*Session, error) {
	sess, err := m.Load(ctx, token)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		return New(m.config.TTL)
	default:
		return nil, err
	}
}

// Save persists sess according to its state. A destroyed session is
// removed and ErrDeleted returned so the caller can clear the cookie.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.Token); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return ErrDeleted
	}

	sess.Touch(m.config.TTL, m.config.TouchInterval)

	if !sess.IsModified() {
		return nil
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

// CleanupExpired removes all expired sessions from the store.
func (m *Manager) CleanupExpired(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live duration.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}
