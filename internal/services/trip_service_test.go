package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripboard/internal/amqp"
	"tripboard/internal/core"
	"tripboard/internal/rows"
	"tripboard/internal/rows/memory"
)

type recordingPublisher struct {
	events []string
	tables []string
	ids    []string
	err    error
}

func (p *recordingPublisher) PublishRowMirror(_ context.Context, event, table, id string) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	p.tables = append(p.tables, table)
	p.ids = append(p.ids, id)
	return nil
}

func validTripInput() CreateTripInput {
	return CreateTripInput{
		Detail: core.TripDetail{
			Name:        "Kyoto in Autumn",
			Country:     "Japan",
			Duration:    7,
			TravelStyle: "Cultural",
			GroupType:   "Couple",
			Budget:      "Mid-range",
		},
		ImageURLs: []string{"https://img.example/kyoto.jpg"},
	}
}

func TestTripService_CreateTrip(t *testing.T) {
	store := memory.New(map[string][]rows.Row{"trips": nil})
	pub := &recordingPublisher{}
	svc := NewTripService(store, pub, "trips")
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	trip, err := svc.CreateTrip(context.Background(), validTripInput())
	if err != nil {
		t.Fatalf("CreateTrip() error = %v", err)
	}

	if trip.ID == "" {
		t.Error("created trip should have an ID")
	}
	if trip.Detail.Name != "Kyoto in Autumn" {
		t.Errorf("Detail.Name = %q, want %q", trip.Detail.Name, "Kyoto in Autumn")
	}
	if trip.Detail.Duration != 7 {
		t.Errorf("Detail.Duration = %d, want 7", trip.Detail.Duration)
	}
	if got := trip.CreatedAt.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("CreatedAt date = %s, want 2024-03-15", got)
	}

	if len(pub.events) != 1 || pub.events[0] != amqp.EventTripCreated {
		t.Errorf("published events = %v, want [%s]", pub.events, amqp.EventTripCreated)
	}
	if pub.ids[0] != trip.ID {
		t.Errorf("published row ID = %s, want %s", pub.ids[0], trip.ID)
	}
}

func TestTripService_CreateTripValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateTripInput)
	}{
		{"missing name", func(in *CreateTripInput) { in.Detail.Name = "" }},
		{"missing country", func(in *CreateTripInput) { in.Detail.Country = "" }},
		{"zero duration", func(in *CreateTripInput) { in.Detail.Duration = 0 }},
	}

	store := memory.New(map[string][]rows.Row{"trips": nil})
	svc := NewTripService(store, nil, "trips")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTripInput()
			tt.modify(&in)

			if _, err := svc.CreateTrip(context.Background(), in); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestTripService_CreateTripPublishFailureTolerated(t *testing.T) {
	store := memory.New(map[string][]rows.Row{"trips": nil})
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTripService(store, pub, "trips")

	trip, err := svc.CreateTrip(context.Background(), validTripInput())
	if err != nil {
		t.Fatalf("CreateTrip() should tolerate publish failure, got %v", err)
	}

	// The row must still be readable after the failed publish.
	if _, err := svc.GetTrip(context.Background(), trip.ID); err != nil {
		t.Errorf("GetTrip() after failed publish error = %v", err)
	}
}

func TestTripService_CreateTripWithoutPublisher(t *testing.T) {
	store := memory.New(map[string][]rows.Row{"trips": nil})
	svc := NewTripService(store, nil, "trips")

	if _, err := svc.CreateTrip(context.Background(), validTripInput()); err != nil {
		t.Fatalf("CreateTrip() without publisher error = %v", err)
	}
}

func TestTripService_ListTrips(t *testing.T) {
	var seed []rows.Row
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		seed = append(seed, rows.Row{
			Data: map[string]any{"tripDetails": `{"name":"` + name + `","country":"Italy","duration":3}`},
		})
	}
	store := memory.New(map[string][]rows.Row{"trips": seed})
	svc := NewTripService(store, nil, "trips")

	trips, total, err := svc.ListTrips(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("ListTrips() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(trips) != 2 {
		t.Fatalf("len(trips) = %d, want 2", len(trips))
	}
	if trips[0].Detail.Name != "C" || trips[1].Detail.Name != "D" {
		t.Errorf("page 2 = [%s %s], want [C D]", trips[0].Detail.Name, trips[1].Detail.Name)
	}
}

func TestTripService_ListTripsDefaultsPage(t *testing.T) {
	store := memory.New(map[string][]rows.Row{"trips": nil})
	svc := NewTripService(store, nil, "trips")

	if _, _, err := svc.ListTrips(context.Background(), 0, 0); err != nil {
		t.Fatalf("ListTrips() with zero page error = %v", err)
	}
}
