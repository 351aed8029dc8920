package concerts

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

const seatGeekBaseURL = "https://api.seatgeek.com/2"

type seatGeekResponse struct {
	Events []seatGeekEvent `json:"events"`
}

type seatGeekEvent struct {
	DatetimeLocal string              `json:"datetime_local"`
	URL           string              `json:"url"`
	Performers    []seatGeekPerformer `json:"performers"`
	Venue         struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"venue"`
	Stats struct {
		LowestPrice  *float64 `json:"lowest_price"`
		HighestPrice *float64 `json:"highest_price"`
	} `json:"stats"`
}

type seatGeekPerformer struct {
	Name string `json:"name"`
}

// SeatGeekOpts configures a [SeatGeek] adapter.
type SeatGeekOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Client       *Client
	Logger       *log.Logger
}

// SeatGeek queries the SeatGeek events API. It is the only source that reports prices.
type SeatGeek struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *Client
	logger       *log.Logger
}

// NewSeatGeek creates a SeatGeek adapter.
func NewSeatGeek(opts SeatGeekOpts) *SeatGeek {
	s := &SeatGeek{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		baseURL:      opts.BaseURL,
		client:       opts.Client,
		logger:       opts.Logger,
	}
	if s.baseURL == "" {
		s.baseURL = seatGeekBaseURL
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
func (s *SeatGeek) Name() string { return shared.ProviderSeatGeek }

// Search implements [Provider].
func (s *SeatGeek) Search(ctx context.Context, artist, location, start, end string) ([]models.Concert, error) {
	from, to, err := searchWindow(start, end)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("client_secret", s.clientSecret)
	params.Set("q", artist)
	params.Set("type", "concert")
	params.Set("datetime_local.gte", from)
	params.Set("datetime_local.lte", to)
	params.Set("venue.city", models.CityToken(location))
	params.Set("per_page", "100")

	var resp seatGeekResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"/events", params, &resp); err != nil {
		s.logger.Warn("search failed", "artist", artist, "error", err)
		return []models.Concert{}, nil
	}

	concerts := make([]models.Concert, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if !ev.performedBy(artist) {
			continue
		}
		concerts = append(concerts, models.NewConcert(
			s.Name(),
			artist,
			ev.Venue.Name,
			models.JoinLocation(ev.Venue.City, ev.Venue.State),
			ev.DatetimeLocal,
			ev.URL,
			models.PriceFrom(ev.Stats.LowestPrice),
			models.PriceFrom(ev.Stats.HighestPrice),
		))
	}

	s.logger.Debug("search complete", "artist", artist, "events", len(resp.Events), "matched", len(concerts))
	return concerts, nil
}

func (ev seatGeekEvent) performedBy(artist string) bool {
	for _, p := range ev.Performers {
		if sameArtist(p.Name, artist) {
			return true
		}
	}
	return false
}
