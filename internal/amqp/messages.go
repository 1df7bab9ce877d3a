package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Events carried by mirror messages.
const (
	EventTripCreated     = "trip.created"
	EventUserProvisioned = "user.provisioned"
)

// RowMirrorMessage asks the mirror worker to copy one row from the hosted
// store into the local mirror. Deliberately lightweight: table and ID only,
// the worker fetches the current row itself so replays stay harmless.
type RowMirrorMessage struct {
	Event     string    `json:"event"`
	Table     string    `json:"table"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRowMirrorMessage creates a mirror message for one row.
func NewRowMirrorMessage(event, table, id string) *RowMirrorMessage {
	return &RowMirrorMessage{
		Event:     event,
		Table:     table,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// Validate checks the fields a worker needs to act on the message.
func (m *RowMirrorMessage) Validate() error {
	switch m.Event {
	case EventTripCreated, EventUserProvisioned:
	default:
		return fmt.Errorf("unknown mirror event %q", m.Event)
	}
	if m.Table == "" {
		return fmt.Errorf("mirror message missing table")
	}
	if m.ID == "" {
		return fmt.Errorf("mirror message missing row ID")
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *RowMirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RowMirrorMessageFromJSON creates a message from JSON bytes
func RowMirrorMessageFromJSON(data []byte) (*RowMirrorMessage, error) {
	var msg RowMirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
