package binder

import "errors"

var (
	// ErrUnsupportedMediaType indicates the Content-Type is not one the binder reads.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON indicates the body is not valid JSON for the target.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrFailedToParseForm indicates a malformed url-encoded or multipart body.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrFailedToParseQuery indicates a query parameter could not be converted.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParsePath indicates a path parameter could not be converted.
	ErrFailedToParsePath = errors.New("failed to parse path parameters")

	// ErrMissingContentType indicates a body binder found no Content-Type header.
	ErrMissingContentType = errors.New("missing content type")

	// ErrBodyTooLarge indicates the body exceeds the binder's size limit.
	ErrBodyTooLarge = errors.New("request body too large")
)
