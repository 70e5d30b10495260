package middleware

import (
	"context"
	"slices"

	"golang.org/x/text/language"

	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

const (
	// ContentKey is the Storage key holding decoded request content on the
	// request and content to encode on the response.
	ContentKey = "content"
	// LanguageKey is the request Storage key holding the negotiated language.Tag.
	LanguageKey = "language"
)

// ContentNegotiationConfig configures the content negotiation middleware.
type ContentNegotiationConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(req *message.Request) bool
	// MediaTypes in order of preference (default: JSON, URLEncodedForm)
	MediaTypes []MediaType
	// Languages supported by the application, the first one is the fallback.
	// Language negotiation is disabled when empty.
	Languages []language.Tag
	// Passthrough lists media types forwarded undecoded, for binders and
	// responders that parse them on their own
	// (default: multipart/form-data, application/octet-stream)
	Passthrough []string
}

// DefaultPassthrough are the media types ContentNegotiation leaves undecoded
// when no Passthrough list is configured.
var DefaultPassthrough = []string{"multipart/form-data", "application/octet-stream"}

// ContentNegotiation creates a content negotiation middleware for the given
// media types, JSON and URLEncodedForm when none are given.
func ContentNegotiation(mediaTypes ...MediaType) handler.Middleware {
	return ContentNegotiationWithConfig(ContentNegotiationConfig{MediaTypes: mediaTypes})
}

// ContentNegotiationWithConfig creates a content negotiation middleware.
//
// Request side: a non-empty body whose Content-Type names a registered media
// type is decoded into Storage[ContentKey]. A passthrough Content-Type is left
// to the responder. Any other Content-Type fails with ErrUnsupportedMediaType
// and an undecodable body with ErrBadRequest.
//
// Response side: when the response Storage carries ContentKey, the value is
// encoded in the best media type the Accept header allows. When none is
// acceptable the request fails with ErrNotAcceptable.
func ContentNegotiationWithConfig(cfg ContentNegotiationConfig) handler.Middleware {
	if len(cfg.MediaTypes) == 0 {
		cfg.MediaTypes = []MediaType{JSON, URLEncodedForm}
	}
	if cfg.Passthrough == nil {
		cfg.Passthrough = DefaultPassthrough
	}

	var matcher language.Matcher
	if len(cfg.Languages) > 0 {
		matcher = language.NewMatcher(cfg.Languages)
	}

	return handler.MiddlewareFunc(func(ctx context.Context, req *message.Request, next handler.Responder) (*message.Response, error) {
		if cfg.Skip != nil && cfg.Skip(req) {
			return next.Respond(ctx, req)
		}

		if err := decodeRequest(req, cfg.MediaTypes, cfg.Passthrough); err != nil {
			return nil, err
		}

		var lang language.Tag
		if matcher != nil {
			tags, _, _ := language.ParseAcceptLanguage(req.Headers.Get("Accept-Language"))
			_, idx, _ := matcher.Match(tags...)
			lang = cfg.Languages[idx]
			req.SetValue(LanguageKey, lang)
		}

		res, err := next.Respond(ctx, req)
		if res == nil {
			return res, err
		}

		if matcher != nil && !res.Headers.Has("Content-Language") {
			res.Headers.Set("Content-Language", lang.String())
		}

		content, ok := res.Storage[ContentKey]
		if !ok {
			return res, err
		}

		mt, ok := negotiate(req.Headers.Get("Accept"), cfg.MediaTypes)
		if !ok {
			return nil, message.ErrNotAcceptable
		}
		data, encErr := mt.Encode(content)
		if encErr != nil {
			return nil, message.ErrInternalServerError.WithError(encErr)
		}
		res.SetBody(message.BufferBody(data))
		res.Headers.Set("Content-Type", mt.Name+"; charset=utf-8")
		return res, err
	})
}

func decodeRequest(req *message.Request, types []MediaType, passthrough []string) error {
	contentType := req.ContentType()
	if contentType == "" || message.IsEmpty(req.Body) || slices.Contains(passthrough, contentType) {
		return nil
	}

	var mt *MediaType
	for i := range types {
		if types[i].Name == contentType {
			mt = &types[i]
			break
		}
	}
	if mt == nil {
		return message.ErrUnsupportedMediaType
	}

	var data []byte
	switch body := req.Body.(type) {
	case message.BufferBody:
		data = body
	case message.ReaderBody:
		var err error
		if data, err = stream.ReadAll(body.Stream, stream.Never); err != nil {
			return err
		}
		// The stream is consumed; keep the bytes readable downstream.
		req.SetBody(message.BufferBody(data))
	default:
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	content, err := mt.Decode(data)
	if err != nil {
		return message.ErrBadRequest.WithError(err)
	}
	req.SetValue(ContentKey, content)
	return nil
}

// GetContent returns the request content decoded by the ContentNegotiation middleware.
func GetContent(req *message.Request) (any, bool) {
	v, ok := req.Storage[ContentKey]
	return v, ok
}

// GetLanguage returns the language negotiated by the ContentNegotiation middleware.
func GetLanguage(req *message.Request) (language.Tag, bool) {
	tag, ok := req.Storage[LanguageKey].(language.Tag)
	return tag, ok
}

// SetContent stores v on res for encoding by the ContentNegotiation middleware.
func SetContent(res *message.Response, v any) {
	res.Storage[ContentKey] = v
}
