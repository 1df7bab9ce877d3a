// Package profile resolves public profile data for newly provisioned users.
// The only upstream today is the Google People API, queried with the OAuth
// access token the sign-in flow handed us.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	goption "google.golang.org/api/option"
	gpeople "google.golang.org/api/people/v1"
)

// AvatarResolver looks up a profile picture URL for an access token.
type AvatarResolver interface {
	Lookup(ctx context.Context, accessToken string) (string, error)
}

// GoogleResolver resolves avatars through the People API. The zero value is
// ready to use; a Service is built per call because the token differs per user.
type GoogleResolver struct{}

var _ AvatarResolver = (*GoogleResolver)(nil)

// Lookup fetches the primary profile photo URL for the token's owner.
// Returns an empty string when the profile has no photos.
func (r *GoogleResolver) Lookup(ctx context.Context, accessToken string) (string, error) {
	if strings.TrimSpace(accessToken) == "" {
		return "", errors.New("missing access token")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gpeople.NewService(ctx, goption.WithTokenSource(ts))
	if err != nil {
		return "", fmt.Errorf("create people service: %w", err)
	}

	person, err := svc.People.Get("people/me").PersonFields("photos").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetch profile photos: %w", err)
	}

	for _, photo := range person.Photos {
		if photo.Url != "" {
			return photo.Url, nil
		}
	}

	slog.InfoContext(ctx, "Profile has no photos, using empty avatar")
	return "", nil
}

// NoopResolver always returns an empty avatar. Used by backends and tests
// that have no identity provider attached.
type NoopResolver struct{}

var _ AvatarResolver = (*NoopResolver)(nil)

func (NoopResolver) Lookup(context.Context, string) (string, error) {
	return "", nil
}
