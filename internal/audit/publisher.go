package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"multiroom-chat/internal/model"

	"github.com/go-redis/redis/v8"
)

type Publisher interface {
	Publish(ctx context.Context, item model.RoomEventItem) error
}

// RedisPublisher pushes each event as JSON onto a pub/sub channel so other
// processes can follow room activity.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(addr, password, channel string) *RedisPublisher {
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		channel: channel,
	}
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("audit publish: redis ping: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Publish(ctx context.Context, item model.RoomEventItem) error {
	if p.channel == "" {
		return fmt.Errorf("audit publish: channel required")
	}

	data, err := json.Marshal(eventJSON(item))
	if err != nil {
		return fmt.Errorf("audit publish: marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		return fmt.Errorf("audit publish: redis publish: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

type publishedEvent struct {
	EventID    string `json:"eventId"`
	Room       string `json:"room"`
	Kind       string `json:"kind"`
	ClientID   int64  `json:"clientId"`
	ClientName string `json:"clientName,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func eventJSON(item model.RoomEventItem) publishedEvent {
	return publishedEvent{
		EventID:    item.EventID,
		Room:       item.Room,
		Kind:       item.Kind,
		ClientID:   item.ClientID,
		ClientName: item.ClientName,
		CreatedAt:  item.CreatedAt,
	}
}
