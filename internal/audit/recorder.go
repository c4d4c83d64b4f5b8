package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"multiroom-chat/internal/chat"
	"multiroom-chat/internal/model"
	"multiroom-chat/internal/queue"

	"github.com/google/uuid"
)

const writeTimeout = 5 * time.Second

// Recorder implements chat.Recorder. Events are written on the worker pool;
// when the pool is saturated the event is dropped rather than stalling the
// room that produced it.
type Recorder struct {
	queue     *queue.RequestQueueManager
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// NewRecorder accepts a nil repo or publisher to skip that sink.
func NewRecorder(q *queue.RequestQueueManager, repo Repository, publisher Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		queue:     q,
		repo:      repo,
		publisher: publisher,
		log:       logger,
	}
}

func (r *Recorder) Record(ev chat.Event) {
	item := newRoomEventItem(ev)
	ok := r.queue.TryEnqueueJob(queue.Job{
		Fn: func() error {
			if err := r.write(item); err != nil {
				r.log.Warn("audit write failed", "room", item.Room, "kind", item.Kind, "err", err)
				return err
			}
			return nil
		},
	})
	if !ok {
		eventsDropped.Inc()
		r.log.Warn("audit queue full, dropping event", "room", item.Room, "kind", item.Kind)
	}
}

func (r *Recorder) write(item model.RoomEventItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var errs []error
	if r.repo != nil {
		if err := r.repo.PutEvent(ctx, item); err != nil {
			eventsFailed.WithLabelValues("dynamodb").Inc()
			errs = append(errs, fmt.Errorf("store event: %w", err))
		} else {
			eventsWritten.WithLabelValues("dynamodb").Inc()
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, item); err != nil {
			eventsFailed.WithLabelValues("redis").Inc()
			errs = append(errs, fmt.Errorf("publish event: %w", err))
		} else {
			eventsWritten.WithLabelValues("redis").Inc()
		}
	}
	return errors.Join(errs...)
}

func newRoomEventItem(ev chat.Event) model.RoomEventItem {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	createdAt := at.UTC().Format(time.RFC3339Nano)
	eventID := uuid.NewString()

	return model.RoomEventItem{
		Room:       ev.Room,
		SK:         model.RoomEventSK(createdAt, eventID),
		EventID:    eventID,
		Kind:       string(ev.Kind),
		ClientID:   ev.ClientID,
		ClientName: ev.ClientName,
		CreatedAt:  createdAt,
	}
}
