package audit

import (
	"context"
	"fmt"

	"multiroom-chat/internal/database"
	"multiroom-chat/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type Repository interface {
	PutEvent(ctx context.Context, item model.RoomEventItem) error
	// ListRoomEvents returns the newest events of a room first.
	ListRoomEvents(ctx context.Context, room string, limit int) ([]model.RoomEventItem, error)
}

type DynamoRepository struct {
	db    *database.Database
	table string
}

func NewDynamoRepository(db *database.Database, table string) Repository {
	return &DynamoRepository{db: db, table: table}
}

func (r *DynamoRepository) PutEvent(ctx context.Context, item model.RoomEventItem) error {
	return r.db.Client.PutItem(ctx, r.table, item)
}

func (r *DynamoRepository) ListRoomEvents(ctx context.Context, room string, limit int) ([]model.RoomEventItem, error) {
	items, err := r.db.Client.QueryPage(
		ctx,
		r.table,
		"#room = :room",
		map[string]types.AttributeValue{
			":room": database.AttrString(room),
		},
		map[string]string{
			"#room": "room",
		},
		limit,
		false,
	)
	if err != nil {
		return nil, err
	}

	events := make([]model.RoomEventItem, 0, len(items))
	for _, item := range items {
		var ev model.RoomEventItem
		if err := attributevalue.UnmarshalMap(item, &ev); err != nil {
			return nil, fmt.Errorf("unmarshal room event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
