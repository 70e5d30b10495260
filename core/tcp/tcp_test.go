package tcp_test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbonates/quark/core/stream"
	"github.com/dbonates/quark/core/tcp"
)

func listen(t *testing.T) *tcp.Host {
	t.Helper()
	host, err := tcp.Listen(tcp.Config{Host: "127.0.0.1", Port: 0, Backlog: 16})
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })
	return host
}

func TestListenInvalidPort(t *testing.T) {
	t.Parallel()

	_, err := tcp.Listen(tcp.Config{Host: "127.0.0.1", Port: 70000})
	assert.ErrorIs(t, err, tcp.ErrInvalidPort)
}

func TestAcceptReadWrite(t *testing.T) {
	t.Parallel()

	host := listen(t)

	done := make(chan []byte, 1)
	go func() {
		conn, err := net.Dial("tcp", host.Addr().String())
		if err != nil {
			done <- nil
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("ping"))
		reply := make([]byte, 4)
		_, _ = io.ReadFull(conn, reply)
		done <- reply
	}()

	s, err := host.Accept(stream.After(5 * time.Second))
	require.NoError(t, err)
	defer s.Close()

	buf := make([]byte, 4)
	n, err := s.Read(buf, stream.After(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	require.NoError(t, s.Write([]byte("pong"), stream.Never))
	require.NoError(t, s.Flush(stream.Never))

	assert.Equal(t, "pong", string(<-done))
}

func TestAcceptTimeout(t *testing.T) {
	t.Parallel()

	host := listen(t)

	_, err := host.Accept(time.Now().Add(20 * time.Millisecond))
	assert.ErrorIs(t, err, stream.ErrTimeout)
}

func TestReadTimeout(t *testing.T) {
	t.Parallel()

	host := listen(t)

	conn, err := net.Dial("tcp", host.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	s, err := host.Accept(stream.Never)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Read(make([]byte, 8), time.Now().Add(20*time.Millisecond))
	assert.ErrorIs(t, err, stream.ErrTimeout)
	assert.False(t, s.Closed(), "a timeout must not close the stream")
}

func TestPeerCloseClosesStream(t *testing.T) {
	t.Parallel()

	host := listen(t)

	conn, err := net.Dial("tcp", host.Addr().String())
	require.NoError(t, err)

	s, err := host.Accept(stream.Never)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, conn.Close())

	_, err = s.Read(make([]byte, 8), stream.After(5*time.Second))
	assert.ErrorIs(t, err, stream.ErrClosedStream)
	assert.True(t, s.Closed())
}

func TestAcceptAfterClose(t *testing.T) {
	t.Parallel()

	host := listen(t)
	require.NoError(t, host.Close())
	require.NoError(t, host.Close())

	_, err := host.Accept(stream.Never)
	assert.ErrorIs(t, err, stream.ErrClosedStream)
}

func TestClosedConnRejectsIO(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()

	s := tcp.NewConn(server, 0)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Read(make([]byte, 1), stream.Never)
	assert.ErrorIs(t, err, stream.ErrClosedStream)
	assert.ErrorIs(t, s.Write([]byte("x"), stream.Never), stream.ErrClosedStream)
	assert.ErrorIs(t, s.Flush(stream.Never), stream.ErrClosedStream)
}
