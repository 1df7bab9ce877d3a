package amqp

import (
	"testing"
	"time"
)

func TestNewRowMirrorMessage(t *testing.T) {
	before := time.Now()
	msg := NewRowMirrorMessage(EventTripCreated, "trips", "row-1")
	after := time.Now()

	if msg.Event != EventTripCreated {
		t.Errorf("Event = %q, want %q", msg.Event, EventTripCreated)
	}
	if msg.Table != "trips" {
		t.Errorf("Table = %q, want %q", msg.Table, "trips")
	}
	if msg.ID != "row-1" {
		t.Errorf("ID = %q, want %q", msg.ID, "row-1")
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp = %v, want between %v and %v", msg.Timestamp, before, after)
	}
}

func TestRowMirrorMessageJSONRoundTrip(t *testing.T) {
	original := NewRowMirrorMessage(EventUserProvisioned, "users", "row-42")

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := RowMirrorMessageFromJSON(data)
	if err != nil {
		t.Fatalf("RowMirrorMessageFromJSON() error = %v", err)
	}

	if decoded.Event != original.Event {
		t.Errorf("Event = %q, want %q", decoded.Event, original.Event)
	}
	if decoded.Table != original.Table {
		t.Errorf("Table = %q, want %q", decoded.Table, original.Table)
	}
	if decoded.ID != original.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, original.ID)
	}
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, original.Timestamp)
	}
}

func TestRowMirrorMessageFromJSONInvalid(t *testing.T) {
	if _, err := RowMirrorMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestRowMirrorMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*RowMirrorMessage)
		wantErr bool
	}{
		{
			name:    "valid message",
			modify:  func(m *RowMirrorMessage) {},
			wantErr: false,
		},
		{
			name:    "unknown event",
			modify:  func(m *RowMirrorMessage) { m.Event = "trip.deleted" },
			wantErr: true,
		},
		{
			name:    "empty event",
			modify:  func(m *RowMirrorMessage) { m.Event = "" },
			wantErr: true,
		},
		{
			name:    "empty table",
			modify:  func(m *RowMirrorMessage) { m.Table = "" },
			wantErr: true,
		},
		{
			name:    "empty row ID",
			modify:  func(m *RowMirrorMessage) { m.ID = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewRowMirrorMessage(EventTripCreated, "trips", "row-1")
			tt.modify(msg)

			err := msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
