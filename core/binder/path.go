package binder

import (
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/router"
)

// Path binds the path parameters of the matched route using `path` struct
// tags. A parameter missing from the route leaves its field untouched.
//
//	// r.Get("/users/:id/posts/:slug", ...)
//	type PostRequest struct {
//		UserID int    `path:"id"`
//		Slug   string `path:"slug"`
//	}
func Path() Binder {
	return func(req *message.Request, v any) error {
		params := router.PathParameters(req)
		values := make(map[string][]string, len(params))
		for k, p := range params {
			if p != "" {
				values[k] = []string{p}
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
