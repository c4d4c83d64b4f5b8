package model

import "fmt"

// RoomEventItem is one lifecycle event in the audit table. Items are
// partitioned by room and sorted by when they happened.
type RoomEventItem struct {
	Room       string `dynamodbav:"room"`
	SK         string `dynamodbav:"sk"`
	EventID    string `dynamodbav:"eventId"`
	Kind       string `dynamodbav:"kind"`
	ClientID   int64  `dynamodbav:"clientId,omitempty"`
	ClientName string `dynamodbav:"clientName,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt"`
}

func RoomEventSK(createdAt, eventID string) string {
	return fmt.Sprintf("%s#%s", createdAt, eventID)
}
