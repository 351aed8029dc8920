package models

import (
	"fmt"
	"time"
)

// SearchRun is a persisted record of one completed sweep.
type SearchRun struct {
	id          string
	startedAt   time.Time
	finishedAt  time.Time
	ArtistCount int
	PeriodCount int
	Providers   []string
	Concerts    []Concert
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSearchRun creates an unsaved [SearchRun] started at the given time.
func NewSearchRun(startedAt time.Time, artistCount, periodCount int, providers []string) *SearchRun {
	now := time.Now()
	return &SearchRun{
		startedAt:   startedAt,
		ArtistCount: artistCount,
		PeriodCount: periodCount,
		Providers:   providers,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreSearchRun rebuilds a [SearchRun] loaded from storage.
func RestoreSearchRun(id string, startedAt, finishedAt, createdAt, updatedAt time.Time, artistCount, periodCount int, providers []string) *SearchRun {
	return &SearchRun{
		id:          id,
		startedAt:   startedAt,
		finishedAt:  finishedAt,
		ArtistCount: artistCount,
		PeriodCount: periodCount,
		Providers:   providers,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r *SearchRun) ID() string            { return r.id }
func (r *SearchRun) SetID(id string)       { r.id = id }
func (r *SearchRun) StartedAt() time.Time  { return r.startedAt }
func (r *SearchRun) FinishedAt() time.Time { return r.finishedAt }
func (r *SearchRun) CreatedAt() time.Time  { return r.createdAt }
func (r *SearchRun) UpdatedAt() time.Time  { return r.updatedAt }

// Finish records the completion time and the concerts found.
func (r *SearchRun) Finish(at time.Time, concerts []Concert) {
	r.finishedAt = at
	r.Concerts = concerts
	r.updatedAt = at
}

// Validate checks that the run has a start time and sane counts.
func (r *SearchRun) Validate() error {
	if r.startedAt.IsZero() {
		return fmt.Errorf("search run start time is required")
	}
	if r.ArtistCount < 0 || r.PeriodCount < 0 {
		return fmt.Errorf("search run counts must not be negative")
	}
	if !r.finishedAt.IsZero() && r.finishedAt.Before(r.startedAt) {
		return fmt.Errorf("search run cannot finish before it starts")
	}
	return nil
}
