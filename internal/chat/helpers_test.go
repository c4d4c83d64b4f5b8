package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu     sync.Mutex
	sent   []*Payload
	fail   bool
	closed bool
	inbox  chan *Payload
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan *Payload, 16)}
}

func (f *fakeConn) Send(p *Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("fake: send failed")
	}
	if f.closed {
		return errors.New("fake: connection closed")
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeConn) Receive(ctx context.Context) (*Payload, error) {
	select {
	case p, ok := <-f.inbox:
		if !ok {
			return nil, io.EOF
		}
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) payloads(t PayloadType) []*Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Payload
	for _, p := range f.sent {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeConn) messages() []string {
	var out []string
	for _, p := range f.payloads(PayloadMessage) {
		out = append(out, p.Message)
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	f.sent = nil
	f.mu.Unlock()
}

type memoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (m *memoryRecorder) Record(ev Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

func (m *memoryRecorder) count(kind EventKind, room string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Kind == kind && ev.Room == room {
			n++
		}
	}
	return n
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) (*Registry, *memoryRecorder) {
	t.Helper()
	rec := &memoryRecorder{}
	reg := NewRegistry(testLogger(), rec)
	reg.format = func(s string) string { return s }
	return reg, rec
}

// connect builds a named client with the given id and places it in the lobby.
func connect(t *testing.T, reg *Registry, id int64, name string) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	c := newClient(conn, testLogger(), nil)
	if err := c.SetDisplayName(name); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	if !c.assignID(id) {
		t.Fatalf("assign id %d failed", id)
	}
	if !reg.JoinRoom(LobbyName, c) {
		t.Fatalf("join lobby failed for %s", name)
	}
	return c, conn
}

// assertConsistent checks that every member of every registered room points
// back at that room.
func assertConsistent(t *testing.T, reg *Registry) {
	t.Helper()
	for _, r := range reg.Rooms() {
		r.mu.Lock()
		for id, m := range r.members {
			if m.Room() != r {
				t.Errorf("member %d of room %s has current room %v", id, r.name, m.Room())
			}
		}
		r.mu.Unlock()
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
