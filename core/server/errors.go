package server

import "errors"

var (
	// Configuration errors
	ErrInvalidPort       = errors.New("invalid port")
	ErrInvalidBacklog    = errors.New("backlog must be positive")
	ErrInvalidBufferSize = errors.New("buffer size must be positive")
	ErrNilResponder      = errors.New("responder is required")

	// Server lifecycle errors
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerClosed         = errors.New("server closed")

	// Connection errors
	ErrNilResponse = errors.New("responder returned a nil response")
	ErrUpgrade     = errors.New("connection upgrade failed")
)
