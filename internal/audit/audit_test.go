package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"multiroom-chat/internal/chat"
	"multiroom-chat/internal/model"
	"multiroom-chat/internal/queue"
)

type memoryRepository struct {
	mu     sync.Mutex
	events map[string][]model.RoomEventItem
	err    error
	limits []int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{events: make(map[string][]model.RoomEventItem)}
}

func (m *memoryRepository) PutEvent(ctx context.Context, item model.RoomEventItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events[item.Room] = append(m.events[item.Room], item)
	return nil
}

func (m *memoryRepository) ListRoomEvents(ctx context.Context, room string, limit int) ([]model.RoomEventItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	out := append([]model.RoomEventItem(nil), m.events[room]...)
	sort.Slice(out, func(i, j int) bool { return out[i].SK > out[j].SK })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryPublisher struct {
	mu    sync.Mutex
	items []model.RoomEventItem
}

func (p *memoryPublisher) Publish(ctx context.Context, item model.RoomEventItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorderWritesToAllSinks(t *testing.T) {
	repo := newMemoryRepository()
	pub := &memoryPublisher{}
	q := queue.NewRequestQueueManager(16, 2, testLogger())
	rec := NewRecorder(q, repo, pub, testLogger())

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.Record(chat.Event{Kind: chat.EventRoomCreated, Room: "games", ClientID: chat.DefaultClientID, At: at})
	rec.Record(chat.Event{Kind: chat.EventMemberJoined, Room: "games", ClientID: 3, ClientName: "Alice", At: at.Add(time.Second)})
	q.Shutdown()

	stored := repo.events["games"]
	if len(stored) != 2 || len(pub.items) != 2 {
		t.Fatalf("stored %d, published %d", len(stored), len(pub.items))
	}
	for _, item := range stored {
		if item.EventID == "" || !strings.HasSuffix(item.SK, "#"+item.EventID) {
			t.Fatalf("bad keys: %+v", item)
		}
		if !strings.HasPrefix(item.SK, item.CreatedAt) {
			t.Fatalf("sort key should start with the timestamp: %+v", item)
		}
	}
}

func TestRecorderKeepsPublishingWhenStoreFails(t *testing.T) {
	repo := newMemoryRepository()
	repo.err = errors.New("dynamo down")
	pub := &memoryPublisher{}
	q := queue.NewRequestQueueManager(4, 1, testLogger())
	rec := NewRecorder(q, repo, pub, testLogger())

	rec.Record(chat.Event{Kind: chat.EventRoomClosed, Room: "games"})
	q.Shutdown()

	if len(pub.items) != 1 {
		t.Fatalf("published %d events", len(pub.items))
	}
}

func TestRecorderDropsWhenQueueIsFull(t *testing.T) {
	pub := &memoryPublisher{}
	q := queue.NewRequestQueueManager(0, 1, testLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	q.EnqueueJob(queue.Job{Fn: func() error {
		close(started)
		<-release
		return nil
	}})
	<-started

	rec := NewRecorder(q, nil, pub, testLogger())
	done := make(chan struct{})
	go func() {
		rec.Record(chat.Event{Kind: chat.EventMemberLeft, Room: "games"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a saturated queue")
	}

	close(release)
	q.Shutdown()
	if len(pub.items) != 0 {
		t.Fatal("dropped event was published")
	}
}

func TestServiceListRoomEvents(t *testing.T) {
	repo := newMemoryRepository()
	for i := 0; i < 3; i++ {
		item := newRoomEventItem(chat.Event{
			Kind: chat.EventMemberJoined,
			Room: "games",
			At:   time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
		})
		_ = repo.PutEvent(context.Background(), item)
	}
	svc := New(repo)

	events, err := svc.ListRoomEvents(context.Background(), " games ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].SK < events[1].SK {
		t.Fatalf("expected the two newest events first, got %+v", events)
	}

	_, _ = svc.ListRoomEvents(context.Background(), "games", 0)
	_, _ = svc.ListRoomEvents(context.Background(), "games", 10000)
	if got := repo.limits[1:]; got[0] != DefaultListLimit || got[1] != MaxListLimit {
		t.Fatalf("limits not clamped: %v", got)
	}
}

func TestServiceErrors(t *testing.T) {
	var svcErr *Error

	_, err := New(nil).ListRoomEvents(context.Background(), "games", 10)
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeUnavailable || !errors.Is(err, ErrDisabled) {
		t.Fatalf("disabled: %v", err)
	}

	repo := newMemoryRepository()
	_, err = New(repo).ListRoomEvents(context.Background(), "  ", 10)
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeValidation {
		t.Fatalf("empty room: %v", err)
	}

	repo.err = errors.New("boom")
	_, err = New(repo).ListRoomEvents(context.Background(), "games", 10)
	if !errors.As(err, &svcErr) || svcErr.Code != ErrorCodeInternal {
		t.Fatalf("repo failure: %v", err)
	}
}
