//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package tcp

import "net"

// listen falls back to the standard listener; the backlog is chosen by the
// operating system and ReusePort is ignored.
func listen(cfg Config) (net.Listener, error) {
	return net.Listen("tcp", cfg.Address())
}
