package chat

import "time"

type EventKind string

const (
	EventRoomCreated        EventKind = "room_created"
	EventRoomClosed         EventKind = "room_closed"
	EventMemberJoined       EventKind = "member_joined"
	EventMemberLeft         EventKind = "member_left"
	EventMemberDisconnected EventKind = "member_disconnected"
)

// Event is a room lifecycle change. Chat text is never part of an event.
type Event struct {
	Kind       EventKind
	Room       string
	ClientID   int64
	ClientName string
	At         time.Time
}

// Recorder receives lifecycle events. Record is called while a room lock is
// held, so implementations must return quickly and must not call back into
// the chat package.
type Recorder interface {
	Record(ev Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}

func newEvent(kind EventKind, room string, c *Client) Event {
	ev := Event{Kind: kind, Room: room, ClientID: DefaultClientID, At: time.Now().UTC()}
	if c != nil {
		ev.ClientID = c.ID()
		ev.ClientName = c.Name()
	}
	return ev
}
