package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/session"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, sess *session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockStore) DeleteExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestManagerLoadOrCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty token creates", func(t *testing.T) {
		store := &MockStore{}
		m := session.NewManager(store, session.WithTTL(time.Hour))

		sess, err := m.LoadOrCreate(ctx, "")
		require.NoError(t, err)
		assert.True(t, sess.IsNew())
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("known token loads", func(t *testing.T) {
		existing, err := session.New(time.Hour)
		require.NoError(t, err)
		existing = existing.Clone()

		store := &MockStore{}
		store.On("Get", mock.Anything, existing.Token).Return(existing, nil)
		m := session.NewManager(store)

		sess, err := m.LoadOrCreate(ctx, existing.Token)
		require.NoError(t, err)
		assert.Same(t, existing, sess)
		assert.False(t, sess.IsNew())
	})

	t.Run("expired token is deleted and replaced", func(t *testing.T) {
		expired, err := session.New(time.Hour)
		require.NoError(t, err)
		expired.ExpiresAt = time.Now().Add(-time.Minute)

		store := &MockStore{}
		store.On("Get", mock.Anything, expired.Token).Return(expired, nil)
		store.On("Delete", mock.Anything, expired.Token).Return(nil)
		m := session.NewManager(store)

		_, err = m.Load(ctx, expired.Token)
		assert.ErrorIs(t, err, session.ErrExpired)

		sess, err := m.LoadOrCreate(ctx, expired.Token)
		require.NoError(t, err)
		assert.NotEqual(t, expired.Token, sess.Token)
		store.AssertExpectations(t)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		store := &MockStore{}
		store.On("Get", mock.Anything, "tok").Return(nil, boom)
		m := session.NewManager(store)

		_, err := m.LoadOrCreate(ctx, "tok")
		assert.ErrorIs(t, err, boom)
	})
}

func TestManagerSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unmodified session is not written", func(t *testing.T) {
		sess, err := session.New(time.Hour)
		require.NoError(t, err)
		sess = sess.Clone()

		store := &MockStore{}
		m := session.NewManager(store)
		require.NoError(t, m.Save(ctx, sess))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("modified session is written", func(t *testing.T) {
		sess, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &MockStore{}
		store.On("Save", mock.Anything, sess).Return(nil)
		m := session.NewManager(store)
		require.NoError(t, m.Save(ctx, sess))
		store.AssertExpectations(t)
	})

	t.Run("write failure is wrapped", func(t *testing.T) {
		sess, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &MockStore{}
		store.On("Save", mock.Anything, sess).Return(errors.New("disk full"))
		m := session.NewManager(store)
		assert.ErrorIs(t, m.Save(ctx, sess), session.ErrSaveSession)
	})

	t.Run("destroyed session is deleted", func(t *testing.T) {
		sess, err := session.New(time.Hour)
		require.NoError(t, err)
		sess.Destroy()

		store := &MockStore{}
		store.On("Delete", mock.Anything, sess.Token).Return(session.ErrNotFound)
		m := session.NewManager(store)
		assert.ErrorIs(t, m.Save(ctx, sess), session.ErrDeleted)
		store.AssertExpectations(t)
	})
}

func TestManagerDefaults(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.NewMemoryStore())
	assert.Equal(t, 24*time.Hour, m.TTL())

	m = session.NewManager(session.NewMemoryStore(), session.WithTTL(0))
	assert.Equal(t, 24*time.Hour, m.TTL())
}
