package concerts

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

// Aggregator queries a fixed, ordered list of providers and concatenates their results.
type Aggregator struct {
	providers []Provider
	logger    *log.Logger
}

// NewAggregator creates an Aggregator over providers, queried in the given order.
func NewAggregator(logger *log.Logger, providers ...Provider) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{providers: providers, logger: logger}
}

// Len returns the number of registered providers.
func (a *Aggregator) Len() int { return len(a.providers) }

// Names returns provider names in query order.
func (a *Aggregator) Names() []string {
	names := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		names = append(names, p.Name())
	}
	return names
}

// SearchAll queries every provider in order and returns the concatenation of their results.
//
// A provider that errors or panics contributes nothing; the failure is logged and the rest still run.
// Remaining providers are skipped once ctx is done.
func (a *Aggregator) SearchAll(ctx context.Context, artist, location, start, end string) []models.Concert {
	var all []models.Concert
	for _, p := range a.providers {
		if ctx.Err() != nil {
			break
		}

		concerts, err := a.search(ctx, p, artist, location, start, end)
		if err != nil {
			a.logger.Error("provider failed", "provider", p.Name(), "artist", artist, "location", location, "error", err)
			continue
		}
		all = append(all, concerts...)
	}
	return all
}

func (a *Aggregator) search(ctx context.Context, p Provider, artist, location, start, end string) (concerts []models.Concert, err error) {
	defer func() {
		if r := recover(); r != nil {
			concerts = nil
			err = fmt.Errorf("%w: panic: %v", shared.ErrProviderFailed, r)
		}
	}()
	return p.Search(ctx, artist, location, start, end)
}
