package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"multiroom-chat/internal/audit"
	"multiroom-chat/internal/chat"
	"multiroom-chat/internal/dto"
	"multiroom-chat/internal/model"

	"github.com/gorilla/mux"
)

const RoomNameVar = "name"

type RoomEndpoints interface {
	Rooms(http.ResponseWriter, *http.Request) error
	Room(http.ResponseWriter, *http.Request) error
	RoomEvents(http.ResponseWriter, *http.Request) error
}

type roomEndpoints struct {
	registry *chat.Registry
	audit    *audit.Service
}

// NewRoomEndpoints serves read-only views of the live registry and, when
// auditService is enabled, of the stored room history.
func NewRoomEndpoints(registry *chat.Registry, auditService *audit.Service) RoomEndpoints {
	return &roomEndpoints{registry: registry, audit: auditService}
}

func (h *roomEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListRooms,
	})
}

func (h *roomEndpoints) Room(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleGetRoom,
	})
}

func (h *roomEndpoints) RoomEvents(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListRoomEvents,
	})
}

func (h *roomEndpoints) handleListRooms(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query().Get("q")

	resp := dto.ListRoomsResponse{
		Rooms: []dto.RoomSummary{},
		Query: query,
	}
	for _, name := range h.registry.ListRooms(query) {
		room := h.registry.Room(name)
		if room == nil {
			// closed since the listing
			continue
		}
		resp.Rooms = append(resp.Rooms, dto.RoomSummary{Name: name, Members: room.Len()})
	}
	return WriteJSON(w, http.StatusOK, resp)
}

func (h *roomEndpoints) handleGetRoom(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)[RoomNameVar]
	room := h.registry.Room(name)
	if room == nil {
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("Room %s doesn't exist", name),
		}
	}

	members := room.Members()
	resp := dto.GetRoomResponse{
		Name:    room.Name(),
		Members: make([]dto.RoomMember, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, dto.RoomMember{ID: m.ID, Name: m.Name})
	}
	return WriteJSON(w, http.StatusOK, resp)
}

func (h *roomEndpoints) handleListRoomEvents(w http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)[RoomNameVar]

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return &HTTPError{
				StatusCode: http.StatusBadRequest,
				Message:    "limit must be a non-negative integer",
				ErrorLog:   fmt.Errorf("bad limit %q", raw),
			}
		}
		limit = n
	}

	events, err := h.audit.ListRoomEvents(r.Context(), name, limit)
	if err != nil {
		return mapAuditServiceError(err)
	}

	resp := dto.ListRoomEventsResponse{
		Room:   name,
		Events: make([]dto.RoomEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, roomEventResponse(ev))
	}
	return WriteJSON(w, http.StatusOK, resp)
}

func roomEventResponse(ev model.RoomEventItem) dto.RoomEventResponse {
	return dto.RoomEventResponse{
		EventID:    ev.EventID,
		Room:       ev.Room,
		Kind:       ev.Kind,
		ClientID:   ev.ClientID,
		ClientName: ev.ClientName,
		CreatedAt:  ev.CreatedAt,
	}
}

func mapAuditServiceError(err error) error {
	var svcErr *audit.Error
	if !errors.As(err, &svcErr) {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("audit service: %w", err),
		}
	}

	var errorLog error = svcErr
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	}

	switch svcErr.Code {
	case audit.ErrorCodeValidation:
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: svcErr.Message, ErrorLog: errorLog}
	case audit.ErrorCodeUnavailable:
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: svcErr.Message, ErrorLog: errorLog}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", ErrorLog: errorLog}
	}
}
