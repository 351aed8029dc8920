package concerts

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

const bandsintownBaseURL = "https://rest.bandsintown.com"

// Bandsintown requires these characters double-encoded in the artist path segment.
var bandsintownEscaper = strings.NewReplacer("%2F", "%252F", "%3F", "%253F", "%2A", "%252A", "%22", "%27C")

type bandsintownEvent struct {
	Datetime string `json:"datetime"`
	URL      string `json:"url"`
	Venue    struct {
		Name    string `json:"name"`
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"venue"`
}

// BandsintownOpts configures a [Bandsintown] adapter.
type BandsintownOpts struct {
	AppID   string
	BaseURL string
	Client  *Client
	Logger  *log.Logger
}

// Bandsintown queries the per-artist Bandsintown events endpoint and filters by venue city.
type Bandsintown struct {
	appID   string
	baseURL string
	client  *Client
	logger  *log.Logger
}

// NewBandsintown creates a Bandsintown adapter.
func NewBandsintown(opts BandsintownOpts) *Bandsintown {
	b := &Bandsintown{appID: opts.AppID, baseURL: opts.BaseURL, client: opts.Client, logger: opts.Logger}
	if b.baseURL == "" {
		b.baseURL = bandsintownBaseURL
	}
	if b.client == nil {
		b.client = NewClient(ClientOpts{})
	}
	if b.logger == nil {
		b.logger = shared.NewLogger(nil)
	}
	b.logger = shared.WithLogger(b.logger, "provider", b.Name())
	return b
}

// Name implements [Provider].
func (b *Bandsintown) Name() string { return shared.ProviderBandsintown }

// Search implements [Provider].
func (b *Bandsintown) Search(ctx context.Context, artist, location, start, end string) ([]models.Concert, error) {
	from, to, err := searchWindow(start, end)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("app_id", b.appID)
	params.Set("date", from+","+to)

	endpoint := b.baseURL + "/artists/" + bandsintownArtistPath(artist) + "/events"

	var events []bandsintownEvent
	if err := b.client.GetJSON(ctx, endpoint, params, &events); err != nil {
		b.logger.Warn("search failed", "artist", artist, "error", err)
		return []models.Concert{}, nil
	}

	city := models.CityToken(location)
	concerts := make([]models.Concert, 0, len(events))
	for _, ev := range events {
		if !cityMatches(ev.Venue.City, city) {
			continue
		}
		concerts = append(concerts, models.NewConcert(
			b.Name(),
			artist,
			ev.Venue.Name,
			models.JoinLocation(ev.Venue.City, ev.Venue.Country),
			ev.Datetime,
			ev.URL,
			models.Price{},
			models.Price{},
		))
	}

	b.logger.Debug("search complete", "artist", artist, "events", len(events), "matched", len(concerts))
	return concerts, nil
}

func bandsintownArtistPath(artist string) string {
	return bandsintownEscaper.Replace(url.PathEscape(artist))
}
