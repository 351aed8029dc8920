// package models defines the data model for the concert finder
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Artist is an artist name as reported by the music service.
//
// Names are compared case-sensitively when merging sources and case-insensitively against provider results.
type Artist string

// ArtistNames converts a slice of [Artist] to plain strings.
func ArtistNames(artists []Artist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = string(a)
	}
	return names
}

// CalendarEvent represents an upcoming calendar entry.
//
// Start and End hold the raw ISO-8601 strings reported by the calendar, either a full timestamp or a bare date.
type CalendarEvent struct {
	ID       string
	Summary  string
	Location string
	Start    string
	End      string
}

// TravelPeriod is a window during which the user is away from home.
type TravelPeriod struct {
	Location string `json:"location"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// City returns the leading city token of the location ("Paris, France" -> "Paris").
func (p TravelPeriod) City() string {
	return CityToken(p.Location)
}
