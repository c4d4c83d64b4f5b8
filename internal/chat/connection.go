package chat

import "context"

// Connection is one peer's bidirectional message channel.
//
// Send must be safe for concurrent use and must not block on a slow peer;
// an error means the peer is unreachable. Receive is only called from the
// session goroutine and returns an error once the stream ends.
type Connection interface {
	Send(p *Payload) error
	Receive(ctx context.Context) (*Payload, error)
	Close() error
}
