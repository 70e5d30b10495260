package server

import (
	"fmt"
	"time"

	"github.com/dbonates/quark/core/tcp"
)

// TCPConfig is the listening address.
type TCPConfig struct {
	Host string `config:"host" env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `config:"port" env:"SERVER_PORT" envDefault:"8080"`
}

// Config holds server configuration. The `config` tags name the keys of
// layered sources (tcp.host, tcp.port, backlog, ...); the `env` tags the
// environment variables.
type Config struct {
	TCP TCPConfig `config:"tcp"`

	Backlog    int  `config:"backlog" env:"SERVER_BACKLOG" envDefault:"128"`
	ReusePort  bool `config:"reusePort" env:"SERVER_REUSE_PORT" envDefault:"false"`
	BufferSize int  `config:"bufferSize" env:"SERVER_BUFFER_SIZE" envDefault:"2048"`

	// Built-in middleware toggles
	Log                bool `config:"log" env:"SERVER_LOG" envDefault:"true"`
	Session            bool `config:"session" env:"SERVER_SESSION" envDefault:"true"`
	ContentNegotiation bool `config:"contentNegotiation" env:"SERVER_CONTENT_NEGOTIATION" envDefault:"true"`

	// Timeouts (0 = never)
	ReadTimeout     time.Duration `config:"readTimeout" env:"SERVER_READ_TIMEOUT" envDefault:"0s"`
	WriteTimeout    time.Duration `config:"writeTimeout" env:"SERVER_WRITE_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `config:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TCP: TCPConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Backlog:            DefaultBacklog,
		BufferSize:         DefaultBufferSize,
		Log:                true,
		Session:            true,
		ContentNegotiation: true,
		ShutdownTimeout:    DefaultShutdownTimeout,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TCP.Port < 0 || c.TCP.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.TCP.Port)
	}
	if c.Backlog <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBacklog, c.Backlog)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, c.BufferSize)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c Config) Address() string {
	return c.tcp().Address()
}

func (c Config) tcp() tcp.Config {
	return tcp.Config{
		Host:       c.TCP.Host,
		Port:       c.TCP.Port,
		Backlog:    c.Backlog,
		ReusePort:  c.ReusePort,
		BufferSize: c.BufferSize,
	}
}
