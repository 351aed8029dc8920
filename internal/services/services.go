// package services defines the artist and calendar sources used by the concert finder
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/gigx/internal/models"
	"golang.org/x/oauth2"
)

// ArtistSource lists the artists a user listens to.
type ArtistSource interface {
	// FollowedArtists returns every artist the user follows.
	FollowedArtists(ctx context.Context) ([]models.Artist, error)

	// TopArtists returns the user's long-term top artists.
	TopArtists(ctx context.Context) ([]models.Artist, error)
}

// CalendarSource lists calendar events overlapping a time window.
type CalendarSource interface {
	Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	Name() string
}

// OAuthService is implemented by providers that authorize through the browser.
type OAuthService interface {
	// GetAuthURL returns the consent page URL carrying state.
	GetAuthURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Name returns the service name used as the token storage key.
	Name() string
}

// CollectArtists fetches followed and top artists and merges them.
func CollectArtists(ctx context.Context, src ArtistSource) ([]models.Artist, error) {
	followed, err := src.FollowedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followed artists: %w", err)
	}

	top, err := src.TopArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top artists: %w", err)
	}

	return MergeArtists(followed, top), nil
}

// MergeArtists concatenates lists and drops repeated names (exact match), keeping first occurrences.
func MergeArtists(lists ...[]models.Artist) []models.Artist {
	seen := make(map[models.Artist]struct{})
	merged := []models.Artist{}
	for _, list := range lists {
		for _, a := range list {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			merged = append(merged, a)
		}
	}
	return merged
}

// TravelPeriods keeps events that have a location other than home.
func TravelPeriods(events []models.CalendarEvent, home string) []models.TravelPeriod {
	periods := []models.TravelPeriod{}
	for _, ev := range events {
		if ev.Location == "" || ev.Location == home {
			continue
		}
		periods = append(periods, models.TravelPeriod{Location: ev.Location, Start: ev.Start, End: ev.End})
	}
	return periods
}
