package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Change actions carried by a ChangeMessage.
const (
	ActionCreate = "create"
	ActionDelete = "delete"
)

// ChangeMessage notifies that one record of a collection changed. Consumers
// fetch current state from the store; the message carries no payload.
type ChangeMessage struct {
	EventID    string    `json:"event_id"`
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	RecordID   int64     `json:"record_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, action string, recordID int64) *ChangeMessage {
	return &ChangeMessage{
		EventID:    uuid.NewString(),
		Collection: collection,
		Action:     action,
		RecordID:   recordID,
		Timestamp:  time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
