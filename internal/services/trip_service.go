package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tripboard/internal/amqp"
	"tripboard/internal/core"
	"tripboard/internal/rows"
)

// ErrInvalidInput marks validation failures so handlers can map them to 422.
var ErrInvalidInput = errors.New("invalid input")

// MirrorPublisher publishes row mirror requests after local writes.
// Satisfied by *amqp.Client; nil-able so backends without a broker still work.
type MirrorPublisher interface {
	PublishRowMirror(ctx context.Context, event, table, id string) error
}

// TripService orchestrates trip operations across the row store and AMQP
type TripService struct {
	store     rows.Store
	publisher MirrorPublisher
	table     string
	now       func() time.Time
}

func NewTripService(store rows.Store, publisher MirrorPublisher, table string) *TripService {
	return &TripService{
		store:     store,
		publisher: publisher,
		table:     table,
		now:       time.Now,
	}
}

// CreateTripInput is the validated payload for a new trip row.
type CreateTripInput struct {
	Detail    core.TripDetail
	ImageURLs []string
}

func (in CreateTripInput) Validate() error {
	if in.Detail.Name == "" {
		return fmt.Errorf("trip name is required")
	}
	if in.Detail.Country == "" {
		return fmt.Errorf("trip country is required")
	}
	if in.Detail.Duration < 1 {
		return fmt.Errorf("trip duration must be at least 1 day, got %d", in.Detail.Duration)
	}
	return nil
}

// CreateTrip saves a trip to the row store and publishes a mirror message.
// The detail blob is stored as a JSON string, matching the rows the console
// already holds, so both shapes decode the same way on read.
func (s *TripService) CreateTrip(ctx context.Context, in CreateTripInput) (core.Trip, error) {
	if err := in.Validate(); err != nil {
		return core.Trip{}, fmt.Errorf("validate trip: %w: %s", ErrInvalidInput, err)
	}

	detailJSON, err := json.Marshal(in.Detail)
	if err != nil {
		return core.Trip{}, fmt.Errorf("encode trip detail: %w", err)
	}

	data := map[string]any{
		"tripDetails": string(detailJSON),
		"imageUrls":   in.ImageURLs,
		"createdAt":   s.now().UTC().Format(time.RFC3339),
	}

	row, err := s.store.Create(ctx, s.table, data)
	if err != nil {
		return core.Trip{}, fmt.Errorf("save trip: %w", err)
	}

	// Publish async mirror message (non-blocking)
	if err := s.publishMirror(ctx, amqp.EventTripCreated, row.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish trip mirror message",
			"row_id", row.ID, "error", err)
		// Don't fail the request - trip is saved in the row store
	}

	return rows.DecodeTrip(row), nil
}

// GetTrip fetches a single trip by row ID.
func (s *TripService) GetTrip(ctx context.Context, id string) (core.Trip, error) {
	row, err := s.store.Get(ctx, s.table, id)
	if err != nil {
		return core.Trip{}, fmt.Errorf("get trip %s: %w", id, err)
	}
	return rows.DecodeTrip(row), nil
}

// ListTrips returns one page of trips plus the total row count.
// Pages are 1-based; page sizes below 1 fall back to the default of 8.
func (s *TripService) ListTrips(ctx context.Context, page, pageSize int) ([]core.Trip, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 8
	}

	list, err := s.store.List(ctx, s.table,
		rows.Limit(pageSize),
		rows.Offset((page-1)*pageSize),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list trips: %w", err)
	}

	return rows.DecodeTrips(list), list.Total, nil
}

func (s *TripService) publishMirror(ctx context.Context, event, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Mirror publisher not available, skipping mirror message")
		return nil
	}
	return s.publisher.PublishRowMirror(ctx, event, s.table, id)
}
