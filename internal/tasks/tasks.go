package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/concerts"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

// Pair is one unit of sweep work.
type Pair struct {
	Period models.TravelPeriod
	Artist models.Artist
}

// Finder drives the artist × travel period sweep against an aggregator.
type Finder struct {
	aggregator *concerts.Aggregator
	logger     *log.Logger
}

// NewFinder creates a Finder over aggregator.
func NewFinder(aggregator *concerts.Aggregator, logger *log.Logger) *Finder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Finder{aggregator: aggregator, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (f *Finder) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run searches every (period, artist) pair and returns deduplicated concerts ordered by date.
func (f *Finder) Run(ctx context.Context, artists []models.Artist, periods []models.TravelPeriod, progress chan<- ProgressUpdate) ([]models.Concert, error) {
	if f.aggregator == nil || f.aggregator.Len() == 0 {
		return nil, shared.ErrNoProviders
	}

	if len(periods) == 0 {
		f.logger.Info("no travel periods, nothing to search")
		f.sendProgress(progress, completeUpdate(0, 0, 0))
		return []models.Concert{}, nil
	}

	pairs := Pairs(artists, periods)
	total := len(pairs)
	f.logger.Info("starting search", "artists", len(artists), "periods", len(periods), "providers", f.aggregator.Names())
	f.sendProgress(progress, searchUpdate(0, total, nil))

	var collected []models.Concert
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return f.interrupted(collected, i, total, err)
		}

		found := f.aggregator.SearchAll(ctx, string(pair.Artist), pair.Period.Location, pair.Period.Start, pair.Period.End)
		collected = append(collected, found...)
		f.sendProgress(progress, searchUpdate(i+1, total, &pair))
	}

	if err := ctx.Err(); err != nil {
		return f.interrupted(collected, total, total, err)
	}

	f.sendProgress(progress, dedupUpdate(len(collected)))
	result := SortByDate(Dedup(collected))

	f.logger.Info("search complete", "collected", len(collected), "unique", len(result))
	f.sendProgress(progress, completeUpdate(total, total, len(result)))
	return result, nil
}

// interrupted returns what was collected so far, wrapped in [shared.ErrCancelled].
func (f *Finder) interrupted(collected []models.Concert, completed, total int, cause error) ([]models.Concert, error) {
	result := SortByDate(Dedup(collected))
	f.logger.Warn("search interrupted", "completed", completed, "total", total, "found", len(result))
	return result, fmt.Errorf("%w: %w", shared.ErrCancelled, cause)
}

// Pairs expands the sweep in period-major order.
func Pairs(artists []models.Artist, periods []models.TravelPeriod) []Pair {
	pairs := make([]Pair, 0, len(artists)*len(periods))
	for _, period := range periods {
		for _, artist := range artists {
			pairs = append(pairs, Pair{Period: period, Artist: artist})
		}
	}
	return pairs
}

// Dedup keeps the first concert for each (artist, venue, date) and drops later ones.
func Dedup(concerts []models.Concert) []models.Concert {
	seen := make(map[models.DedupKey]struct{}, len(concerts))
	unique := make([]models.Concert, 0, len(concerts))
	for _, c := range concerts {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// SortByDate stable-sorts concerts in place by raw date string and returns them.
//
// Ordering is lexical, so it is chronological only when every date shares one format and offset.
func SortByDate(concerts []models.Concert) []models.Concert {
	slices.SortStableFunc(concerts, func(a, b models.Concert) int {
		return strings.Compare(a.Date, b.Date)
	})
	return concerts
}
