package chat

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// LobbyName is the reserved room every client lands in after the handshake.
// It is never closed while the server runs.
const LobbyName = "lobby"

const shutdownNotice = "Room is shutting down, migrating to lobby"

type MemberInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Room owns a set of clients. Every operation that reads or changes the
// member set runs under mu, so fan-out and membership changes on one room
// never interleave.
type Room struct {
	name     string
	registry *Registry
	log      *slog.Logger

	mu      sync.Mutex
	members map[int64]*Client
	open    bool
}

func newRoom(name string, registry *Registry) *Room {
	r := &Room{
		name:     name,
		registry: registry,
		log:      registry.log.With("room", name),
		members:  make(map[int64]*Client),
		open:     true,
	}
	r.log.Info("room created")
	return r
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) isLobby() bool {
	return r.name == LobbyName
}

func (r *Room) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Members returns the current members ordered by id.
func (r *Room) Members() []MemberInfo {
	r.mu.Lock()
	out := make([]MemberInfo, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, MemberInfo{ID: m.ID(), Name: m.Name()})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddMember inserts c, announces it to the room (c included) and syncs the
// existing members to c. It reports whether c is a member afterwards.
func (r *Room) AddMember(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open || c.isClosed() {
		return false
	}
	id := c.ID()
	if _, ok := r.members[id]; ok {
		r.log.Warn("attempting to add a client that already exists in the room", "client_id", id)
		return true
	}

	r.members[id] = c
	c.setRoom(r)

	failed := r.deliverLocked(roomChangePayload(id, c.Name(), r.name, true), nil)
	if !containsClient(failed, c) {
		for _, m := range r.snapshotLocked() {
			if m == c {
				continue
			}
			if !c.Send(syncPeerPayload(m.ID(), m.Name())) {
				failed = append(failed, c)
				break
			}
		}
	}

	r.registry.recorder.Record(newEvent(EventMemberJoined, r.name, c))
	r.log.Info("client joined", "client_id", id, "client_name", c.Name())

	r.dropLocked(failed)
	return true
}

// RemoveMember takes c out of the room for a move elsewhere. The departure
// is announced before removal so c sees its own leave notice.
func (r *Room) RemoveMember(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}
	id := c.ID()
	if cur, ok := r.members[id]; !ok || cur != c {
		return
	}

	failed := r.deliverLocked(roomChangePayload(id, c.Name(), r.name, false), nil)
	delete(r.members, id)

	r.registry.recorder.Record(newEvent(EventMemberLeft, r.name, c))
	r.log.Info("client left", "client_id", id, "remaining", len(r.members))

	r.dropLocked(failed)
}

// DisconnectMember ends c's session: every member (c included, as its
// acknowledgement) is told about the disconnect, c's resources are released
// and it is removed. The room closes if that left it empty.
func (r *Room) DisconnectMember(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}
	r.dropLocked([]*Client{c})
}

// DisconnectAll disconnects every current member.
func (r *Room) DisconnectAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}
	r.log.Info("disconnect all triggered", "members", len(r.members))
	r.dropLocked(r.snapshotLocked())
	r.log.Info("disconnect all finished")
}

// Broadcast sends text from sender to every member that has not muted the
// sender's name. A nil sender marks a server-generated message.
func (r *Room) Broadcast(sender *Client, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}
	r.broadcastLocked(sender, text)
}

func (r *Room) broadcastLocked(sender *Client, text string) {
	msg := r.registry.format(text)

	senderID := DefaultClientID
	senderName := ""
	if sender != nil {
		senderID = sender.ID()
		senderName = sender.Name()
	}

	var skip func(*Client) bool
	if sender != nil {
		skip = func(m *Client) bool {
			if m.IsMuted(senderName) {
				r.log.Debug("message skipped due to mute", "from", senderName, "to", m.Name())
				return true
			}
			return false
		}
	}

	r.log.Debug("sending message", "recipients", len(r.members), "sender_id", senderID)
	failed := r.deliverLocked(chatMessagePayload(senderID, msg), skip)
	r.dropLocked(failed)
}

// SendPrivateMessage delivers text to the member with targetID and echoes it
// back to sender. Each leg that fails disconnects the party it was meant for.
func (r *Room) SendPrivateMessage(sender *Client, targetID int64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}

	target, ok := r.members[targetID]
	if !ok {
		r.replyLocked(sender, fmt.Sprintf("User with ID '%d' not found in the room.", targetID))
		return
	}

	r.log.Info("private message", "from", sender.ID(), "to", targetID)

	var failed []*Client
	if !target.Send(chatMessagePayload(sender.ID(), fmt.Sprintf("[Private from %s]: %s", sender.Name(), text))) {
		r.log.Info("failed to send private message", "client_id", targetID)
		failed = append(failed, target)
	}
	if !sender.Send(chatMessagePayload(sender.ID(), fmt.Sprintf("[Private to %s]: %s", target.Name(), text))) {
		r.log.Info("failed to confirm private message to sender", "client_id", sender.ID())
		failed = append(failed, sender)
	}
	r.dropLocked(failed)
}

// Mute adds the display name of the member with targetID to sender's mute set.
func (r *Room) Mute(sender *Client, targetID int64) {
	r.changeMute(sender, targetID, sender.AddMuted, "[You muted %s]")
}

// Unmute removes the display name of the member with targetID from sender's
// mute set.
func (r *Room) Unmute(sender *Client, targetID int64) {
	r.changeMute(sender, targetID, sender.RemoveMuted, "[You unmuted %s]")
}

func (r *Room) changeMute(sender *Client, targetID int64, apply func(string) bool, confirm string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return
	}

	target, ok := r.members[targetID]
	if !ok {
		r.replyLocked(sender, fmt.Sprintf("User with ID '%d' not found in the room.", targetID))
		return
	}

	if apply(target.Name()) {
		r.replyLocked(sender, fmt.Sprintf(confirm, target.Name()))
	}
}

// replyLocked sends a system line to c alone; c is dropped if unreachable.
func (r *Room) replyLocked(c *Client, text string) {
	if !c.SendMessage(text) {
		r.dropLocked([]*Client{c})
	}
}

func (r *Room) HandleCreateRoom(sender *Client, name string) {
	if name == "" {
		sender.reply("Room name can't be empty.")
		return
	}
	if r.registry.CreateRoom(name) {
		if !r.registry.JoinRoom(name, sender) {
			if created := r.registry.Room(name); created != nil {
				created.closeIfEmpty()
			}
		}
		return
	}
	sender.reply(fmt.Sprintf("Room %s already exists", name))
}

func (r *Room) HandleJoinRoom(sender *Client, name string) {
	if name == "" {
		sender.reply("Room name can't be empty.")
		return
	}
	if !r.registry.JoinRoom(name, sender) {
		sender.reply(fmt.Sprintf("Room %s doesn't exist", name))
	}
}

func (r *Room) HandleListRooms(sender *Client, query string) {
	if !sender.Send(roomListPayload(r.registry.ListRooms(query), query)) {
		r.DisconnectMember(sender)
	}
}

func (r *Room) HandleRoll(sender *Client, spec string) {
	result, err := Roll(spec, r.registry.intn)
	if err != nil {
		sender.reply(err.Error())
		return
	}
	r.Broadcast(sender, fmt.Sprintf("<b><span style='color:blue;'>rolled %s and got %s</span></b>", result.Spec, result.String()))
}

func (r *Room) HandleFlip(sender *Client) {
	r.Broadcast(sender, fmt.Sprintf("<i><span style='color:green;'>flipped a coin and got %s</span></i>", Flip(r.registry.intn)))
}

// Close shuts the room down. Remaining members get a notice and are moved to
// the lobby once the room lock is released. The lobby itself never closes.
func (r *Room) Close() {
	if r.isLobby() {
		return
	}

	r.mu.Lock()
	migrants := r.closeLocked()
	r.mu.Unlock()

	for _, m := range migrants {
		if !r.registry.JoinRoom(LobbyName, m) {
			m.Close()
		}
	}
}

func (r *Room) closeIfEmpty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		r.autoCloseLocked()
	}
}

func (r *Room) autoCloseLocked() {
	if r.isLobby() || len(r.members) > 0 {
		return
	}
	r.closeLocked()
}

// closeLocked marks the room closed and returns the members that still need
// a new room.
func (r *Room) closeLocked() []*Client {
	if !r.open || r.isLobby() {
		return nil
	}

	var migrants []*Client
	if len(r.members) > 0 {
		failed := r.deliverLocked(chatMessagePayload(DefaultClientID, r.registry.format(shutdownNotice)), nil)
		for _, m := range r.snapshotLocked() {
			if containsClient(failed, m) {
				m.Close()
				continue
			}
			migrants = append(migrants, m)
		}
		r.log.Info("migrating clients", "count", len(migrants))
	}

	r.open = false
	clear(r.members)
	r.registry.RemoveRoom(r)

	incRoomsClosed()
	r.registry.recorder.Record(newEvent(EventRoomClosed, r.name, nil))
	r.log.Info("room closed")
	return migrants
}

// snapshotLocked copies the member set so callers can iterate while the map
// changes underneath.
func (r *Room) snapshotLocked() []*Client {
	out := make([]*Client, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

// deliverLocked sends p to every member not excluded by skip and returns the
// members whose send failed. It never mutates the member set.
func (r *Room) deliverLocked(p *Payload, skip func(*Client) bool) []*Client {
	var failed []*Client
	for _, m := range r.snapshotLocked() {
		if skip != nil && skip(m) {
			continue
		}
		if !m.Send(p) {
			r.log.Info("removing unreachable client", "client_id", m.ID())
			failed = append(failed, m)
		}
	}
	return failed
}

// dropLocked disconnects each client in pending. Departure notices that fail
// add their recipients to the queue. Auto-close is evaluated once at the end.
func (r *Room) dropLocked(pending []*Client) {
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]

		id := c.ID()
		if cur, ok := r.members[id]; !ok || cur != c {
			continue
		}

		failed := r.deliverLocked(peerDisconnectedPayload(id, c.Name()), nil)
		delete(r.members, id)
		c.clearRoom(r)
		c.Close()

		r.registry.recorder.Record(newEvent(EventMemberDisconnected, r.name, c))
		r.log.Info("client disconnected", "client_id", id, "remaining", len(r.members))

		for _, f := range failed {
			if f != c {
				pending = append(pending, f)
			}
		}
	}
	r.autoCloseLocked()
}

func containsClient(list []*Client, c *Client) bool {
	for _, m := range list {
		if m == c {
			return true
		}
	}
	return false
}
