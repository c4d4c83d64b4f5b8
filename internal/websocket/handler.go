package websocket

import (
	"log/slog"
	"net/http"

	"multiroom-chat/internal/chat"

	"github.com/gorilla/websocket"
)

type Handler struct {
	server    *chat.Server
	log       *slog.Logger
	queueSize int
	upgrader  websocket.Upgrader
}

func NewHandler(server *chat.Server, logger *slog.Logger, queueSize int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		server:    server,
		log:       logger,
		queueSize: queueSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeWS upgrades the request and runs the chat session on the calling
// goroutine until the peer goes away.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	conn := NewConn(ws, h.queueSize, h.log.With("remote", r.RemoteAddr))
	defer conn.Close()

	h.log.Debug("websocket connected", "remote", r.RemoteAddr)
	h.server.Serve(r.Context(), conn)
	h.log.Debug("websocket disconnected", "remote", r.RemoteAddr)
}
