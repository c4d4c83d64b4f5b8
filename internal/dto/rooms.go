package dto

type RoomSummary struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

type ListRoomsResponse struct {
	Rooms []RoomSummary `json:"rooms"`
	Query string        `json:"query,omitempty"`
}

type RoomMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GetRoomResponse struct {
	Name    string       `json:"name"`
	Members []RoomMember `json:"members"`
}

type RoomEventResponse struct {
	EventID    string `json:"eventId"`
	Room       string `json:"room"`
	Kind       string `json:"kind"`
	ClientID   int64  `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

type ListRoomEventsResponse struct {
	Room   string              `json:"room"`
	Events []RoomEventResponse `json:"events"`
}
