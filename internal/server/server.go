// Package server accepts envelope connections over TCP. Every read from a
// connection is one request message; the handler's reply is written back
// before the next read.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"movie-records/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrServerClosed = errors.New("server: closed")

// Handler turns one raw request message into one raw reply.
type Handler interface {
	Serve(ctx context.Context, message []byte) []byte
}

type Server struct {
	cfg     config.ServerConfig
	handler Handler
	logger  *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closing  bool
}

func New(cfg config.ServerConfig, handler Handler, logger *logrus.Logger) *Server {
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 2048
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on the configured envelope address and serves until
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.EnvelopeAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It always returns a non-nil error; after
// Shutdown the error is ErrServerClosed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.WithField("addr", ln.Addr().String()).Info("Envelope server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosing() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.WithError(err).Warn("Accept timed out, retrying")
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return err
		}

		if !s.track(conn) {
			conn.Close()
			return ErrServerClosed
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Addr reports the bound address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting, lets in-flight requests finish and waits for the
// connection goroutines. When ctx expires first the remaining connections are
// closed and ctx's error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	if s.listener != nil {
		s.listener.Close()
	}
	now := time.Now()
	for conn := range s.conns {
		conn.SetReadDeadline(now)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	log := s.logger.WithFields(logrus.Fields{
		"conn_id": uuid.New().String(),
		"remote":  conn.RemoteAddr().String(),
	})
	log.Debug("Connection accepted")

	buf := make([]byte, s.cfg.MaxMessageSize)
	for {
		if !s.armRead(conn) {
			return
		}

		n, err := conn.Read(buf)
		if n > 0 {
			reply := s.handler.Serve(s.ctx, buf[:n])
			if s.cfg.WriteTimeout > 0 {
				conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			}
			if _, werr := conn.Write(reply); werr != nil {
				log.WithError(werr).Warn("Failed to write reply")
				return
			}
		}
		if err != nil {
			var ne net.Error
			switch {
			case errors.Is(err, io.EOF):
				log.Debug("Connection closed by client")
			case errors.As(err, &ne) && ne.Timeout():
				if !s.isClosing() {
					log.Info("Connection idle timeout")
				}
			default:
				log.WithError(err).Warn("Connection read failed")
			}
			return
		}
	}
}

// armRead sets the read deadline for the next message. It reports false once
// the server is shutting down.
func (s *Server) armRead(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	var deadline time.Time
	if s.cfg.IdleTimeout > 0 {
		deadline = time.Now().Add(s.cfg.IdleTimeout)
	}
	conn.SetReadDeadline(deadline)
	return true
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}
