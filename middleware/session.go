package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/session"
)

// SessionKey is the request Storage key holding the *session.Session.
const SessionKey = "session"

// DefaultSessionCookie is the default name of the session cookie.
const DefaultSessionCookie = "quark-session"

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// Store is the session backend (default: in-memory store)
	Store session.Store
	// Options configure the session manager (TTL, touch interval)
	Options []session.Option
	// CookieName is the name of the session cookie (default: "quark-session")
	CookieName string
	// CookiePath is the cookie path attribute (default: "/")
	CookiePath string
	// Secure sets the Secure cookie attribute
	Secure bool
	// SameSite sets the SameSite cookie attribute (default: Lax)
	SameSite http.SameSite
	// Logger for structured logging (default: slog with io.Discard)
	Logger *slog.Logger
}

// Session creates a session middleware backed by an in-memory store.
func Session() handler.Middleware {
	return SessionWithConfig(SessionConfig{})
}

// SessionWithStore creates a session middleware backed by store.
func SessionWithStore(store session.Store) handler.Middleware {
	return SessionWithConfig(SessionConfig{Store: store})
}

// SessionWithConfig creates a session middleware.
//
// The middleware:
//   - Loads the session named by the session cookie, or starts a new one when
//     the cookie is missing, unknown or expired
//   - Stores it in the request Storage under SessionKey
//   - Saves it after the response is produced
//   - Sets the cookie when the session is new or its token was rotated, and
//     expires the cookie when the session was destroyed
//
// Store failures while loading degrade to a fresh session. Failures while
// saving are logged and the response is returned unchanged.
func SessionWithConfig(cfg SessionConfig) handler.Middleware {
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	manager := session.NewManager(cfg.Store, cfg.Options...)

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		var token string
		if c := req.Cookie(cfg.CookieName); c != nil {
			token = c.Value
		}

		sess, err := manager.LoadOrCreate(ctx, token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			cfg.Logger.ErrorContext(ctx, "failed to load session", logger.Error(err))
			// Degrade to a fresh session instead of failing the request
			if sess, err = session.New(manager.TTL()); err != nil {
				return nil, message.ErrInternalServerError.WithError(err)
			}
		}

		req.SetValue(SessionKey, sess)

		res, err := next.Respond(ctx, req)
		if res == nil {
			return res, err
		}

		switch saveErr := manager.Save(ctx, sess); {
		case errors.Is(saveErr, session.ErrDeleted):
			res.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    "",
				Path:     cfg.CookiePath,
				MaxAge:   -1,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: cfg.SameSite,
			})
		case saveErr != nil:
			cfg.Logger.ErrorContext(ctx, "failed to save session",
				logger.SessionID(sess.ID.String()),
				logger.Error(saveErr),
			)
		case sess.Token != token:
			res.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.Token,
				Path:     cfg.CookiePath,
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: cfg.SameSite,
			})
		}

		return res, err
	})
}

// GetSession returns the session stored by the Session middleware.
func GetSession(req *message.Request) (*session.Session, bool) {
	sess, ok := req.Storage[SessionKey].(*session.Session)
	return sess, ok
}
