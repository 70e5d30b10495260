package server

import "time"

const (
	// DefaultHost is the default listening host.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default listening port.
	DefaultPort = 8080

	// DefaultBacklog is the default listen queue length.
	DefaultBacklog = 128

	// DefaultBufferSize is the default read and write buffer size in bytes.
	DefaultBufferSize = 2048

	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// maxAcceptDelay caps the back-off between failed accepts.
	maxAcceptDelay = time.Second
)
