package chat

import (
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// Registry maps room names to rooms. The lobby is created with the registry
// and is never removed from it.
type Registry struct {
	log      *slog.Logger
	recorder Recorder
	format   func(string) string
	intn     func(int) int

	mu    sync.RWMutex
	rooms map[string]*Room
	lobby *Room
}

func NewRegistry(logger *slog.Logger, recorder Recorder) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	reg := &Registry{
		log:      logger,
		recorder: recorder,
		format:   FormatMarkup,
		intn:     rand.Intn,
		rooms:    make(map[string]*Room),
	}
	reg.lobby = newRoom(LobbyName, reg)
	reg.rooms[LobbyName] = reg.lobby
	setRooms(len(reg.rooms))
	recorder.Record(newEvent(EventRoomCreated, LobbyName, nil))
	return reg
}

func (reg *Registry) Lobby() *Room {
	return reg.lobby
}

// Room returns the open room registered under name, or nil.
func (reg *Registry) Room(name string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[name]
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Rooms returns the registered rooms ordered by name.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	reg.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// CreateRoom registers a new room and reports whether it did; an existing
// room with the same name is left untouched.
func (reg *Registry) CreateRoom(name string) bool {
	reg.mu.Lock()
	if _, ok := reg.rooms[name]; ok {
		reg.mu.Unlock()
		return false
	}
	reg.rooms[name] = newRoom(name, reg)
	count := len(reg.rooms)
	reg.mu.Unlock()

	setRooms(count)
	reg.recorder.Record(newEvent(EventRoomCreated, name, nil))
	return true
}

// JoinRoom moves c from its current room into the room called name. It
// reports false when no such room exists. If the room closes between lookup
// and insertion, c falls back to the lobby and JoinRoom reports false.
func (reg *Registry) JoinRoom(name string, c *Client) bool {
	target := reg.Room(name)
	if target == nil {
		return false
	}

	prev := c.Room()
	if prev == target {
		return true
	}
	if prev != nil {
		prev.RemoveMember(c)
	}

	if target.AddMember(c) {
		return true
	}
	if target != reg.lobby && !c.isClosed() {
		reg.lobby.AddMember(c)
	}
	return false
}

// ListRooms returns the names containing query, case-insensitively, in
// sorted order. An empty query matches every room.
func (reg *Registry) ListRooms(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))

	reg.mu.RLock()
	names := make([]string, 0, len(reg.rooms))
	for name := range reg.rooms {
		if query == "" || strings.Contains(strings.ToLower(name), query) {
			names = append(names, name)
		}
	}
	reg.mu.RUnlock()

	sort.Strings(names)
	return names
}

// RemoveRoom deregisters r. It is idempotent and ignores the lobby.
func (reg *Registry) RemoveRoom(r *Room) {
	if r == nil || r == reg.lobby {
		return
	}

	reg.mu.Lock()
	if cur, ok := reg.rooms[r.name]; ok && cur == r {
		delete(reg.rooms, r.name)
	}
	count := len(reg.rooms)
	reg.mu.Unlock()

	setRooms(count)
}

// Close announces the shutdown in every room and disconnects all members.
func (reg *Registry) Close() {
	for _, r := range reg.Rooms() {
		r.Broadcast(nil, "Server is shutting down")
		r.DisconnectAll()
	}
}
