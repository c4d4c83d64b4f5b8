package audit

import (
	"context"
	"strings"

	"multiroom-chat/internal/model"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Service struct {
	repo Repository
}

// New builds a read-side service. With a nil repo every query reports
// ErrorCodeUnavailable.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Enabled() bool {
	return s != nil && s.repo != nil
}

func (s *Service) ListRoomEvents(ctx context.Context, room string, limit int) ([]model.RoomEventItem, error) {
	if !s.Enabled() {
		return nil, newError(ErrorCodeUnavailable, "Audit trail is not enabled", ErrDisabled)
	}

	room = strings.TrimSpace(room)
	if room == "" {
		return nil, newError(ErrorCodeValidation, "Room name is required", nil)
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	events, err := s.repo.ListRoomEvents(ctx, room, limit)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "Failed to load room events", err)
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
