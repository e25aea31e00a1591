package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"movie-records/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthHandler replies with the size of every message it sees.
type lengthHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *lengthHandler) Serve(_ context.Context, message []byte) []byte {
	h.mu.Lock()
	h.messages = append(h.messages, string(message))
	h.mu.Unlock()
	return []byte(fmt.Sprintf("%d;", len(message)))
}

func (h *lengthHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

func startServer(t *testing.T, cfg config.ServerConfig, handler Handler) *Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(cfg, handler, log)
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		assert.ErrorIs(t, <-errc, ErrServerClosed)
	})

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	return srv
}

func dial(t *testing.T, srv *Server) net.Conn {
	t.Helper()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func readUntil(t *testing.T, conn net.Conn, want string) string {
	t.Helper()

	var sb strings.Builder
	buf := make([]byte, 64)
	for sb.Len() < len(want) {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		sb.Write(buf[:n])
	}
	return sb.String()
}

func TestRoundTrip(t *testing.T) {
	handler := &lengthHandler{}
	srv := startServer(t, config.ServerConfig{MaxMessageSize: 2048}, handler)
	conn := dial(t, srv)

	_, err := conn.Write([]byte(`{"method":"GET"}`))
	require.NoError(t, err)

	assert.Equal(t, "16;", readUntil(t, conn, "16;"))
	assert.Equal(t, []string{`{"method":"GET"}`}, handler.seen())
}

func TestSequentialRequestsOnOneConnection(t *testing.T) {
	handler := &lengthHandler{}
	srv := startServer(t, config.ServerConfig{MaxMessageSize: 2048}, handler)
	conn := dial(t, srv)

	for _, msg := range []string{"a", "bb", "ccc"} {
		_, err := conn.Write([]byte(msg))
		require.NoError(t, err)
		want := fmt.Sprintf("%d;", len(msg))
		assert.Equal(t, want, readUntil(t, conn, want))
	}
	assert.Equal(t, []string{"a", "bb", "ccc"}, handler.seen())
}

func TestOversizedMessageIsTruncated(t *testing.T) {
	handler := &lengthHandler{}
	srv := startServer(t, config.ServerConfig{MaxMessageSize: 16}, handler)
	conn := dial(t, srv)

	_, err := conn.Write([]byte(strings.Repeat("x", 20)))
	require.NoError(t, err)

	assert.Equal(t, "16;4;", readUntil(t, conn, "16;4;"))
	seen := handler.seen()
	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 16)
}

func TestConnectionsAreIndependent(t *testing.T) {
	srv := startServer(t, config.ServerConfig{MaxMessageSize: 2048}, &lengthHandler{})

	first := dial(t, srv)
	second := dial(t, srv)

	_, err := second.Write([]byte("four"))
	require.NoError(t, err)
	assert.Equal(t, "4;", readUntil(t, second, "4;"))

	_, err = first.Write([]byte("twelve chars"))
	require.NoError(t, err)
	assert.Equal(t, "12;", readUntil(t, first, "12;"))
}

func TestIdleTimeoutClosesConnection(t *testing.T) {
	srv := startServer(t, config.ServerConfig{MaxMessageSize: 2048, IdleTimeout: 50 * time.Millisecond}, &lengthHandler{})
	conn := dial(t, srv)

	_, err := conn.Read(make([]byte, 8))
	assert.ErrorIs(t, err, io.EOF)
}

func TestShutdownClosesIdleConnections(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(config.ServerConfig{MaxMessageSize: 2048}, &lengthHandler{}, log)
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	assert.Equal(t, "4;", readUntil(t, conn, "4;"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.ErrorIs(t, <-errc, ErrServerClosed)

	_, err = conn.Read(make([]byte, 8))
	assert.ErrorIs(t, err, io.EOF)
}

func TestServeAfterShutdown(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := New(config.ServerConfig{}, &lengthHandler{}, log)
	require.NoError(t, srv.Shutdown(context.Background()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.ErrorIs(t, srv.Serve(ln), ErrServerClosed)
}
