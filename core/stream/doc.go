// Package stream defines the byte stream abstraction every connection, request body and
// response body of the engine is composed over.
//
// A Stream is a readable and writable pair of byte channels with an explicit closed state.
// Every blocking call takes a deadline; the zero time (Never) disables the timeout and an
// elapsed deadline makes the call fail with ErrTimeout instead of blocking.
//
//	s := stream.NewDrain([]byte("GET / HTTP/1.1\r\n\r\n"))
//	buf := make([]byte, 2048)
//	n, err := s.Read(buf, stream.Never)
//
// Implementations are not safe for concurrent use: a stream is owned by exactly one
// connection task for its lifetime.
package stream
