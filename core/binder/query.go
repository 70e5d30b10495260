package binder

import "github.com/dbonates/quark/core/message"

// Query binds query string parameters using `query` struct tags.
//
//	type SearchRequest struct {
//		Query    string   `query:"q"`
//		Page     int      `query:"page"`
//		Tags     []string `query:"tags"`   // ?tags=go&tags=web or ?tags=go,web
//		Active   *bool    `query:"active"` // optional
//		Internal string   `query:"-"`
//	}
func Query() Binder {
	return func(req *message.Request, v any) error {
		var values map[string][]string
		if req.URI != nil {
			values = req.URI.Query()
		}
		return bindToStruct(v, "query", values, ErrFailedToParseQuery)
	}
}
