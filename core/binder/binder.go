package binder

import (
	"errors"
	"fmt"

	"github.com/dbonates/quark/core/message"
	"github.com/dbonates/quark/core/stream"
)

// Binder binds part of req onto v, which must be a non-nil struct pointer.
type Binder func(req *message.Request, v any) error

// Bind runs binders in order and stops at the first failure. Failures are
// returned as HTTP errors wrapping the binder error: an unsupported or
// missing media type is message.ErrUnsupportedMediaType, an oversized body
// message.ErrRequestEntityTooLarge and anything else message.ErrBadRequest.
func Bind(req *message.Request, v any, binders ...Binder) error {
	for _, bind := range binders {
		if err := bind(req, v); err != nil {
			return httpError(err)
		}
	}
	return nil
}

func httpError(err error) error {
	if _, ok := message.StatusOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrUnsupportedMediaType), errors.Is(err, ErrMissingContentType):
		return message.ErrUnsupportedMediaType.WithError(err)
	case errors.Is(err, ErrBodyTooLarge):
		return message.ErrRequestEntityTooLarge.WithError(err)
	default:
		return message.ErrBadRequest.WithError(err)
	}
}

// readBody returns at most limit bytes of the request body. A streaming body
// is replaced by the bytes read.
func readBody(req *message.Request, limit int64, bindErr error) ([]byte, error) {
	switch body := req.Body.(type) {
	case nil:
		return nil, nil
	case message.BufferBody:
		if int64(len(body)) > limit {
			return nil, fmt.Errorf("%w: %w (max %d bytes)", bindErr, ErrBodyTooLarge, limit)
		}
		return body, nil
	case message.ReaderBody:
		data, err := readLimited(body.Stream, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bindErr, err)
		}
		req.SetBody(message.BufferBody(data))
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unreadable body", bindErr)
	}
}

func readLimited(in stream.InputStream, limit int64) ([]byte, error) {
	var out []byte
	buf := make([]byte, stream.DefaultBufferSize)
	for !in.Closed() {
		n, err := in.Read(buf, stream.Never)
		out = append(out, buf[:n]...)
		if int64(len(out)) > limit {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, limit)
		}
		if err != nil {
			if stream.IsClosed(err) {
				break
			}
			return nil, err
		}
	}
	return out, nil
}
