// Package tcp provides the TCP implementation of the stream.Host and stream.Stream
// contracts used by the server.
//
// The listener is created once with the configured backlog and, where the platform
// supports it, SO_REUSEPORT so several processes can share a port:
//
//	host, err := tcp.Listen(tcp.Config{Host: "0.0.0.0", Port: 8080, Backlog: 128})
//	if err != nil {
//		return err
//	}
//	defer host.Close()
//
//	s, err := host.Accept(stream.Never)
//
// Accepted connections write through a buffer of Config.BufferSize bytes; data
// reaches the socket on Flush.
package tcp
