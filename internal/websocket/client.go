package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"multiroom-chat/internal/chat"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	maxFrameSize = 64 * 1024
)

var (
	ErrClosed    = errors.New("websocket: connection closed")
	ErrQueueFull = errors.New("websocket: outbound queue full")
)

// Conn adapts a websocket connection to chat.Connection. Outbound payloads
// go through a bounded queue drained by a single writer goroutine, so Send
// never blocks on a slow peer.
type Conn struct {
	ws  *websocket.Conn
	log *slog.Logger
	out chan *chat.Payload

	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex // guards isClosed against concurrent Send
	isClosed  bool
	writeMu   sync.Mutex // one writer at a time on ws
}

func NewConn(ws *websocket.Conn, queueSize int, logger *slog.Logger) *Conn {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{
		ws:   ws,
		log:  logger,
		out:  make(chan *chat.Payload, queueSize),
		done: make(chan struct{}),
	}
	ws.SetReadLimit(maxFrameSize)

	go c.writeMessage()
	go c.keepAlive()
	return c
}

func (c *Conn) Send(p *chat.Payload) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.isClosed {
		return ErrClosed
	}
	select {
	case c.out <- p:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive blocks until the next well-formed payload arrives. Frames that are
// not valid JSON are logged and skipped. A closed stream reports io.EOF.
func (c *Conn) Receive(ctx context.Context) (*chat.Payload, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) || c.closed() {
				return nil, io.EOF
			}
			return nil, err
		}

		var p chat.Payload
		if err := json.Unmarshal(data, &p); err != nil {
			c.log.Warn("dropping malformed frame", "err", err, "size", len(data))
			continue
		}
		return &p, nil
	}
}

// Close stops the connection. Payloads already queued are flushed before
// the close frame is written.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.isClosed = true
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

func (c *Conn) closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isClosed
}

func (c *Conn) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()

			if err != nil {
				c.log.Debug("ping failed", "err", err)
				c.Close()
				return
			}
		}
	}
}

func (c *Conn) writeMessage() {
	defer func() {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(writeWait))
		c.ws.Close()
		c.writeMu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			return
		case msg := <-c.out:
			if err := c.write(msg); err != nil {
				c.log.Debug("write failed", "err", err)
				c.Close()
				return
			}
		}
	}
}

// flush writes whatever is still queued, without waiting for more.
func (c *Conn) flush() {
	for {
		select {
		case msg := <-c.out:
			if err := c.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Conn) write(p *chat.Payload) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(p)
}
