package chat

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Client is the server side of one connected peer: its identity, the room it
// currently belongs to, the names it has muted, and the routing of inbound
// payloads into room operations.
type Client struct {
	conn          Connection
	onInitialized func(*Client)

	mu          sync.RWMutex
	log         *slog.Logger
	id          int64
	name        string
	room        *Room
	muted       map[string]struct{}
	initialized bool
	closed      bool
}

func newClient(conn Connection, logger *slog.Logger, onInitialized func(*Client)) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		conn:          conn,
		onInitialized: onInitialized,
		log:           logger,
		id:            DefaultClientID,
		muted:         make(map[string]struct{}),
	}
}

func (c *Client) ID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Room returns the room the client is in, or nil before the handshake
// completes and after cleanup.
func (c *Client) Room() *Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Client) logger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log
}

func (c *Client) setRoom(r *Room) {
	c.mu.Lock()
	c.room = r
	c.mu.Unlock()
}

// clearRoom drops the room reference only if it still points at r.
func (c *Client) clearRoom(r *Room) {
	c.mu.Lock()
	if c.room == r {
		c.room = nil
	}
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// SetDisplayName sets the name shown to other members. The first successful
// call completes the handshake and notifies the owning server.
func (c *Client) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	c.name = name
	c.log = c.log.With("client_name", name)
	first := !c.initialized
	c.initialized = true
	c.mu.Unlock()

	if first && c.onInitialized != nil {
		c.onInitialized(c)
	}
	return nil
}

// assignID stores the server-issued id and tells the peer about it.
func (c *Client) assignID(id int64) bool {
	c.mu.Lock()
	c.id = id
	c.log = c.log.With("client_id", id)
	name := c.name
	c.mu.Unlock()
	return c.Send(assignIDPayload(id, name))
}

// Send hands one payload to the connection. It reports false instead of
// failing so fan-out code can treat an unreachable peer uniformly.
func (c *Client) Send(p *Payload) (ok bool) {
	if p == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("send panicked", "panic", r)
			incDeliveryFailures()
			ok = false
		}
	}()

	if err := c.conn.Send(p); err != nil {
		c.logger().Debug("send failed", "type", p.Type, "err", err)
		incDeliveryFailures()
		return false
	}
	addDelivered(1)
	return true
}

// SendMessage delivers a server-originated chat line to this client only.
func (c *Client) SendMessage(text string) bool {
	return c.Send(chatMessagePayload(DefaultClientID, text))
}

func (c *Client) AddMuted(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.muted[name]; ok {
		return false
	}
	c.muted[name] = struct{}{}
	c.log.Info("client muted", "target", name)
	return true
}

func (c *Client) RemoveMuted(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.muted[name]; !ok {
		return false
	}
	delete(c.muted, name)
	c.log.Info("client unmuted", "target", name)
	return true
}

func (c *Client) IsMuted(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.muted[name]
	return ok
}

// Close releases the connection and clears the room reference. Safe to call
// more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.room = nil
	logger := c.log
	c.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		logger.Debug("close connection", "err", err)
	}
}

// Dispatch routes one inbound payload. A panic raised while handling it is
// logged and swallowed so the session keeps reading.
func (c *Client) Dispatch(p *Payload) {
	if p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("could not process payload", "type", p.Type, "panic", r)
		}
	}()

	if p.Type == PayloadClientConnect {
		if err := c.SetDisplayName(p.ClientName); err != nil {
			c.reply(err.Error())
		}
		return
	}

	room := c.Room()
	if room == nil {
		switch p.Type {
		case PayloadMessage, PayloadPrivateMessage, PayloadRoomCreate, PayloadRoomJoin,
			PayloadRoomList, PayloadRoll, PayloadFlip, PayloadMute, PayloadUnmute:
			c.reply("Join a room first.")
		case PayloadDisconnect:
			c.Close()
		}
		return
	}

	switch p.Type {
	case PayloadMessage:
		room.Broadcast(c, p.Message)
	case PayloadPrivateMessage:
		if strings.TrimSpace(p.Message) == "" {
			c.reply("Invalid private message. Message content cannot be empty.")
			return
		}
		room.SendPrivateMessage(c, p.ClientID, p.Message)
	case PayloadRoomCreate:
		room.HandleCreateRoom(c, roomName(p))
	case PayloadRoomJoin:
		room.HandleJoinRoom(c, roomName(p))
	case PayloadRoomList:
		room.HandleListRooms(c, p.Message)
	case PayloadDisconnect:
		room.DisconnectMember(c)
	case PayloadRoll:
		room.HandleRoll(c, p.Message)
	case PayloadFlip:
		room.HandleFlip(c)
	case PayloadMute:
		if p.ClientID == c.ID() {
			c.reply("You can't mute yourself.")
			return
		}
		room.Mute(c, p.ClientID)
	case PayloadUnmute:
		room.Unmute(c, p.ClientID)
	default:
		c.logger().Debug("ignoring payload", "type", p.Type)
	}
}

// reply sends a system line outside any room lock; an unreachable client is
// dropped from whatever room it is in.
func (c *Client) reply(text string) {
	if c.SendMessage(text) {
		return
	}
	if room := c.Room(); room != nil {
		room.DisconnectMember(c)
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%s[%d]", c.Name(), c.ID())
}

// roomName reads the target room of a create/join request; older peers put
// it in the message field.
func roomName(p *Payload) string {
	if p.Room != "" {
		return strings.TrimSpace(p.Room)
	}
	return strings.TrimSpace(p.Message)
}
