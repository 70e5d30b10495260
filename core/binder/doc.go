// Package binder maps request data onto Go structs.
//
// A Binder reads one part of a request: the query string, the path
// parameters bound by the router, a JSON body, or a form body
// (application/x-www-form-urlencoded or multipart/form-data). Bind applies
// several binders in order and translates failures into HTTP errors.
//
//	type CreateComment struct {
//		PostID int      `path:"id"`
//		Draft  bool     `query:"draft"`
//		Body   string   `form:"body"`
//		Tags   []string `form:"tags"`
//	}
//
//	r.Post("/posts/:id/comments", func(ctx context.Context, req *message.Request) (*message.Response, error) {
//		var in CreateComment
//		if err := binder.Bind(req, &in, binder.Path(), binder.Query(), binder.Form()); err != nil {
//			return nil, err
//		}
//		...
//	})
//
// Struct tags name the parameter (`query:"page"`), `-` skips the field and
// untagged fields use the lower-cased field name. Query, path and form
// binders support strings, signed and unsigned integers, floats, booleans
// (including on/off and yes/no), pointers for optional values and slices,
// which accept repeated parameters as well as comma-separated lists.
//
// String values are sanitized: NUL bytes, CR, LF and other control
// characters are removed. JSON bodies are decoded strictly, rejecting unknown
// fields and trailing data.
//
// Binders that read the body replace a streaming body with the buffered
// bytes, so the body can be bound more than once.
package binder
