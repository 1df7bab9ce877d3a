package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tripboard/internal/amqp"
	"tripboard/internal/core"
	"tripboard/internal/profile"
	"tripboard/internal/rows"
)

// UserService provisions console users and reads them back for listings
type UserService struct {
	store     rows.Store
	publisher MirrorPublisher
	avatars   profile.AvatarResolver
	table     string
	now       func() time.Time
}

func NewUserService(store rows.Store, publisher MirrorPublisher, avatars profile.AvatarResolver, table string) *UserService {
	if avatars == nil {
		avatars = profile.NoopResolver{}
	}
	return &UserService{
		store:     store,
		publisher: publisher,
		avatars:   avatars,
		table:     table,
		now:       time.Now,
	}
}

// ProvisionInput carries the identity attributes from a completed sign-in.
type ProvisionInput struct {
	AccountID   string
	Name        string
	Email       string
	AccessToken string
}

func (in ProvisionInput) Validate() error {
	if in.AccountID == "" {
		return fmt.Errorf("account ID is required")
	}
	if in.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// Provision returns the user row for an account, creating it on first sign-in.
// Avatar lookup failures are tolerated: the user is stored without a picture.
func (s *UserService) Provision(ctx context.Context, in ProvisionInput) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, fmt.Errorf("validate user: %w: %s", ErrInvalidInput, err)
	}

	existing, err := s.store.List(ctx, s.table,
		rows.Equal("accountId", in.AccountID),
		rows.Limit(1),
	)
	if err != nil {
		return core.User{}, fmt.Errorf("look up user by account: %w", err)
	}
	if len(existing.Rows) > 0 {
		return rows.DecodeUser(existing.Rows[0]), nil
	}

	imageURL := ""
	if in.AccessToken != "" {
		imageURL, err = s.avatars.Lookup(ctx, in.AccessToken)
		if err != nil {
			slog.WarnContext(ctx, "Failed to resolve avatar, storing user without one",
				"account_id", in.AccountID, "error", err)
			imageURL = ""
		}
	}

	data := map[string]any{
		"accountId":      in.AccountID,
		"name":           in.Name,
		"email":          in.Email,
		"imageUrl":       imageURL,
		"joinedAt":       s.now().UTC().Format(time.RFC3339),
		"itineraryCount": 0,
	}

	row, err := s.store.Create(ctx, s.table, data)
	if err != nil {
		return core.User{}, fmt.Errorf("save user: %w", err)
	}

	if err := s.publishMirror(ctx, amqp.EventUserProvisioned, row.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish user mirror message",
			"row_id", row.ID, "error", err)
		// Don't fail the request - user is saved in the row store
	}

	return rows.DecodeUser(row), nil
}

// ListUsers returns one page of users plus the total row count.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]core.User, int, error) {
	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.store.List(ctx, s.table,
		rows.Limit(limit),
		rows.Offset(offset),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return rows.DecodeUsers(list), list.Total, nil
}

func (s *UserService) publishMirror(ctx context.Context, event, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Mirror publisher not available, skipping mirror message")
		return nil
	}
	return s.publisher.PublishRowMirror(ctx, event, s.table, id)
}
