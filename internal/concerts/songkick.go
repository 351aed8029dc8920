package concerts

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/tidwall/gjson"
)

const songkickBaseURL = "https://api.songkick.com/api/3.0"

// SongkickOpts configures a [Songkick] adapter.
type SongkickOpts struct {
	APIKey  string
	BaseURL string
	Client  *Client
	Logger  *log.Logger
}

// Songkick resolves a city to a Songkick metro area, then lists that area's events for the artist.
type Songkick struct {
	apiKey  string
	baseURL string
	client  *Client
	logger  *log.Logger
}

// NewSongkick creates a Songkick adapter.
func NewSongkick(opts SongkickOpts) *Songkick {
	s := &Songkick{apiKey: opts.APIKey, baseURL: opts.BaseURL, client: opts.Client, logger: opts.Logger}
	if s.baseURL == "" {
		s.baseURL = songkickBaseURL
	}
	if s.client == nil {
		s.client = NewClient(ClientOpts{})
	}
	if s.logger == nil {
		s.logger = shared.NewLogger(nil)
	}
	s.logger = shared.WithLogger(s.logger, "provider", s.Name())
	return s
}

// Name implements [Provider].
func (s *Songkick) Name() string { return shared.ProviderSongkick }

// Search implements [Provider].
func (s *Songkick) Search(ctx context.Context, artist, location, start, end string) ([]models.Concert, error) {
	from, to, err := searchWindow(start, end)
	if err != nil {
		return nil, err
	}

	city := models.CityToken(location)
	metroID, err := s.metroArea(ctx, city)
	if err != nil {
		s.logger.Warn("location lookup failed", "artist", artist, "city", city, "error", err)
		return []models.Concert{}, nil
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("location", "sk:"+metroID)
	params.Set("min_date", from)
	params.Set("max_date", to)

	body, err := s.client.Get(ctx, s.baseURL+"/events.json", params)
	if err != nil {
		s.logger.Warn("search failed", "artist", artist, "error", err)
		return []models.Concert{}, nil
	}

	events := gjson.GetBytes(body, "resultsPage.results.event").Array()
	concerts := make([]models.Concert, 0, len(events))
	for _, ev := range events {
		if !songkickPerformedBy(ev, artist) {
			continue
		}
		concerts = append(concerts, models.NewConcert(
			s.Name(),
			artist,
			ev.Get("venue.displayName").String(),
			ev.Get("location.city").String(),
			songkickDate(ev),
			ev.Get("uri").String(),
			models.Price{},
			models.Price{},
		))
	}

	s.logger.Debug("search complete", "artist", artist, "metro_area", metroID, "events", len(events), "matched", len(concerts))
	return concerts, nil
}

// metroArea returns the metro area ID of the first location matching city.
func (s *Songkick) metroArea(ctx context.Context, city string) (string, error) {
	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("query", city)

	body, err := s.client.Get(ctx, s.baseURL+"/search/locations.json", params)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(body, "resultsPage.results.location.0.metroArea.id")
	if !id.Exists() || id.String() == "" {
		return "", shared.ErrLocationNotFound
	}
	return id.String(), nil
}

func songkickPerformedBy(ev gjson.Result, artist string) bool {
	for _, p := range ev.Get("performance").Array() {
		if sameArtist(p.Get("displayName").String(), artist) {
			return true
		}
	}
	return false
}

// songkickDate prefers the start timestamp and falls back to the bare start date.
func songkickDate(ev gjson.Result) string {
	if dt := ev.Get("start.datetime"); dt.Exists() && dt.Type != gjson.Null && dt.String() != "" {
		return dt.String()
	}
	return ev.Get("start.date").String()
}
