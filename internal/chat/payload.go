package chat

import "time"

type PayloadType string

const (
	PayloadClientConnect  PayloadType = "CLIENT_CONNECT" // client -> server: display name
	PayloadClientID       PayloadType = "CLIENT_ID"      // server -> client: assigned id
	PayloadSyncClient     PayloadType = "SYNC_CLIENT"    // silent sync of a room member
	PayloadDisconnect     PayloadType = "DISCONNECT"
	PayloadRoomCreate     PayloadType = "ROOM_CREATE"
	PayloadRoomJoin       PayloadType = "ROOM_JOIN" // join/leave based on Connect
	PayloadRoomList       PayloadType = "ROOM_LIST" // client: query, server: results
	PayloadMessage        PayloadType = "MESSAGE"
	PayloadRoll           PayloadType = "ROLL"
	PayloadFlip           PayloadType = "FLIP"
	PayloadPrivateMessage PayloadType = "PRIVATE_MESSAGE"
	PayloadMute           PayloadType = "MUTE"
	PayloadUnmute         PayloadType = "UNMUTE"
)

// DefaultClientID marks a client without an assigned id and, as a sender id,
// a server generated message.
const DefaultClientID int64 = -1

// Payload is the single message shape exchanged with a peer in both
// directions. Which fields are meaningful depends on Type.
type Payload struct {
	Type       PayloadType `json:"type"`
	ClientID   int64       `json:"clientId"`
	ClientName string      `json:"clientName,omitempty"`
	Message    string      `json:"message,omitempty"`
	Room       string      `json:"room,omitempty"`
	Connect    bool        `json:"connect,omitempty"`
	Rooms      []string    `json:"rooms,omitempty"`
	Timestamp  int64       `json:"timestamp,omitempty"`
}

func newPayload(t PayloadType) *Payload {
	return &Payload{Type: t, ClientID: DefaultClientID, Timestamp: time.Now().Unix()}
}

func assignIDPayload(id int64, name string) *Payload {
	p := newPayload(PayloadClientID)
	p.ClientID = id
	p.ClientName = name
	p.Connect = true
	return p
}

func syncPeerPayload(id int64, name string) *Payload {
	p := newPayload(PayloadSyncClient)
	p.ClientID = id
	p.ClientName = name
	p.Connect = true
	return p
}

func roomChangePayload(id int64, name, room string, joined bool) *Payload {
	p := newPayload(PayloadRoomJoin)
	p.ClientID = id
	p.ClientName = name
	p.Room = room
	p.Connect = joined
	return p
}

func peerDisconnectedPayload(id int64, name string) *Payload {
	p := newPayload(PayloadDisconnect)
	p.ClientID = id
	p.ClientName = name
	return p
}

func chatMessagePayload(senderID int64, text string) *Payload {
	p := newPayload(PayloadMessage)
	p.ClientID = senderID
	p.Message = text
	return p
}

func roomListPayload(rooms []string, query string) *Payload {
	p := newPayload(PayloadRoomList)
	p.Rooms = rooms
	p.Message = query
	return p
}
