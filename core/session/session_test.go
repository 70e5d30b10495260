package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/session"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Len(t, sess.Token, 43)
	assert.True(t, sess.IsNew())
	assert.True(t, sess.IsModified())
	assert.False(t, sess.IsExpired())
	assert.False(t, sess.IsDeleted())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Second)

	other, err := session.New(time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token, other.Token)
}

func TestSessionValues(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	clean := sess.Clone()
	assert.False(t, clean.IsModified())

	clean.Set("visits", 3)
	assert.True(t, clean.IsModified())
	v, ok := clean.Get("visits")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = sess.Get("visits")
	assert.False(t, ok, "clone must not share values")

	clean.Delete("visits")
	_, ok = clean.Get("visits")
	assert.False(t, ok)
}

func TestSessionRefreshKeepsID(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	id, token := sess.ID, sess.Token

	require.NoError(t, sess.Refresh())
	assert.Equal(t, id, sess.ID)
	assert.NotEqual(t, token, sess.Token)
}

func TestSessionTouch(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Minute)
	require.NoError(t, err)
	sess = sess.Clone()
	sess.UpdatedAt = time.Now().Add(-10 * time.Minute)
	before := sess.ExpiresAt

	sess.Touch(time.Hour, 5*time.Minute)
	assert.True(t, sess.IsModified())
	assert.True(t, sess.ExpiresAt.After(before))

	recent := sess.Clone()
	recent.Touch(2*time.Hour, 5*time.Minute)
	assert.False(t, recent.IsModified())
}

func TestSessionDestroy(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	sess.Destroy()
	assert.True(t, sess.IsDeleted())
}
