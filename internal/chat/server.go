package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// Server is the per-process chat context: it owns the room registry, hands
// out client ids and runs one session per connection.
type Server struct {
	log      *slog.Logger
	registry *Registry
	nextID   atomic.Int64
}

func NewServer(registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{log: logger, registry: registry}
}

func (s *Server) Registry() *Registry {
	return s.registry
}

// Serve runs the receive loop for conn until the peer goes away, the
// context ends or the client disconnects itself. The client is always
// removed from its room before Serve returns.
func (s *Server) Serve(ctx context.Context, conn Connection) {
	session := uuid.NewString()
	c := newClient(conn, s.log.With("session", session), s.onInitialized)

	incConnections()
	defer decConnections()
	defer s.cleanup(c)

	c.logger().Debug("session started")
	for {
		p, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				c.logger().Debug("session ended", "err", err)
			} else {
				c.logger().Info("receive failed", "err", err)
			}
			return
		}

		c.Dispatch(p)
		if c.isClosed() {
			return
		}
	}
}

// onInitialized runs once the client has a display name: assign an id and
// place it in the lobby.
func (s *Server) onInitialized(c *Client) {
	id := s.nextID.Add(1)
	if !c.assignID(id) {
		c.Close()
		return
	}
	if !s.registry.JoinRoom(LobbyName, c) {
		s.log.Warn("could not place client in lobby", "client_id", id)
	}
}

func (s *Server) cleanup(c *Client) {
	if room := c.Room(); room != nil {
		room.DisconnectMember(c)
	}
	c.Close()
}

// Shutdown disconnects every client in every room.
func (s *Server) Shutdown() {
	s.log.Info("chat server shutting down", "rooms", s.registry.Len())
	s.registry.Close()
}
