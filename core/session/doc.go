// Package session provides server-side sessions keyed by a random token.
//
// A Manager wraps a Store and applies the lifecycle rules: expired sessions
// are dropped on load, expiry is extended at most once per touch interval,
// and only modified sessions are written back. MemoryStore is the bundled
// Store; it copies sessions in and out so concurrent requests never share
// one.
//
//	m := session.NewManager(session.NewMemoryStore(), session.WithTTL(time.Hour))
//	sess, err := m.LoadOrCreate(ctx, cookieValue)
//	sess.Set("visits", 1)
//	err = m.Save(ctx, sess)
package session
