package concerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

// Provider is a concert-listing source.
type Provider interface {
	// Name returns the source identifier stamped on every record (e.g. "SeatGeek").
	Name() string

	// Search returns concerts by artist near location between start and end (inclusive ISO-8601 dates).
	//
	// Transport failures yield an empty result and a nil error.
	Search(ctx context.Context, artist, location, start, end string) ([]models.Concert, error)
}

// searchWindow validates an ISO-8601 window and returns both ends as YYYY-MM-DD.
func searchWindow(start, end string) (string, string, error) {
	from, err := models.ParseTimestamp(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: start: %v", shared.ErrInvalidInput, err)
	}
	to, err := models.ParseTimestamp(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: end: %v", shared.ErrInvalidInput, err)
	}
	if to.Before(from) {
		return "", "", fmt.Errorf("%w: start %s is after end %s", shared.ErrInvalidInput, start, end)
	}
	return from.Format("2006-01-02"), to.Format("2006-01-02"), nil
}

// sameArtist is the exact-name, case-insensitive performer match.
func sameArtist(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// cityMatches reports whether the venue city contains the wanted city token, ignoring case.
func cityMatches(venueCity, city string) bool {
	return strings.Contains(strings.ToLower(venueCity), strings.ToLower(city))
}
