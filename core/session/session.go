package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side key/value bag identified by a token the client
// keeps in a cookie.
type Session struct {
	// ID is the stable session identifier. It survives token rotation.
	ID uuid.UUID

	// Token is the cookie value: 32 random bytes, base64url.
	Token string

	Values map[string]any

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time

	isNew      bool
	isModified bool
}

// New creates an empty session that expires after ttl.
func New(ttl time.Duration) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		Token:      token,
		Values:     make(map[string]any),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isNew:      true,
		isModified: true,
	}, nil
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Set stores v under key.
func (s *Session) Set(key string, v any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = v
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; !ok {
		return
	}
	delete(s.Values, key)
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Refresh rotates the token, keeping the ID and values.
func (s *Session) Refresh() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Destroy marks the session for deletion.
func (s *Session) Destroy() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// Touch extends the expiration once touchInterval has elapsed since the
// last update.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		now := time.Now()
		s.ExpiresAt = now.Add(ttl)
		s.UpdatedAt = now
		s.isModified = true
	}
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

// IsDeleted reports whether Destroy was called.
func (s *Session) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified reports whether the session needs saving.
func (s *Session) IsModified() bool {
	return s.isModified
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a deep copy of the session with its flags cleared.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	c.isNew = false
	c.isModified = false
	return &c
}

// generateToken creates a cryptographically secure random token using 32 bytes (256 bits)
// encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
