package concerts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	th "github.com/desertthunder/gigx/internal/testing"
)

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func jsonServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestSeatGeek(t *testing.T) {
	const body = `{"events":[
		{"datetime_local":"2024-06-12T20:00:00","url":"https://sg/1",
		 "performers":[{"name":"Radiohead"}],
		 "venue":{"name":"O2 Arena","city":"London","state":"England"},
		 "stats":{"lowest_price":85,"highest_price":250}},
		{"datetime_local":"2024-06-13T20:00:00","url":"https://sg/2",
		 "performers":[{"name":"Radiohead Tribute"}],
		 "venue":{"name":"Pub","city":"London","state":"England"},
		 "stats":{"lowest_price":10,"highest_price":10}},
		{"datetime_local":"2024-06-14T20:00:00","url":"",
		 "performers":[{"name":"Support"},{"name":"radiohead"}],
		 "venue":{"name":"Roundhouse","city":"London","state":""},
		 "stats":{"lowest_price":null,"highest_price":null}}
	]}`

	t.Run("Search", func(t *testing.T) {
		var query map[string]string
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events" {
				t.Errorf("expected path /events, got %s", r.URL.Path)
			}
			query = map[string]string{}
			for k := range r.URL.Query() {
				query[k] = r.URL.Query().Get(k)
			}
			w.Write([]byte(body))
		})

		sg := NewSeatGeek(SeatGeekOpts{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := sg.Search(context.Background(), "Radiohead", "London, UK", "2024-06-10T00:00:00Z", "2024-06-15T00:00:00Z")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		expected := map[string]string{
			"client_id":          "id",
			"client_secret":      "secret",
			"q":                  "Radiohead",
			"type":               "concert",
			"datetime_local.gte": "2024-06-10",
			"datetime_local.lte": "2024-06-15",
			"venue.city":         "London",
			"per_page":           "100",
		}
		for k, v := range expected {
			if query[k] != v {
				t.Errorf("expected query %s=%q, got %q", k, v, query[k])
			}
		}

		if len(concerts) != 2 {
			t.Fatalf("expected 2 concerts, got %d", len(concerts))
		}

		first := concerts[0]
		if first.Source != "SeatGeek" {
			t.Errorf("expected source SeatGeek, got %s", first.Source)
		}
		if first.Artist != "Radiohead" {
			t.Errorf("expected queried artist name, got %s", first.Artist)
		}
		if first.Venue != "O2 Arena - London, England" {
			t.Errorf("unexpected venue %q", first.Venue)
		}
		if first.Date != "2024-06-12T20:00:00" {
			t.Errorf("unexpected date %q", first.Date)
		}
		if first.LowestPrice.String() != "85" || first.HighestPrice.String() != "250" {
			t.Errorf("unexpected prices %s/%s", first.LowestPrice, first.HighestPrice)
		}

		second := concerts[1]
		if second.Venue != "Roundhouse - London" {
			t.Errorf("unexpected venue %q", second.Venue)
		}
		if second.LowestPrice.Available() || second.HighestPrice.Available() {
			t.Error("expected missing prices to be unavailable")
		}
		if second.TicketsURL != models.NotAvailable {
			t.Errorf("expected empty url to become N/A, got %q", second.TicketsURL)
		}
	})

	t.Run("Server Error Is Fail-Soft", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		sg := NewSeatGeek(SeatGeekOpts{BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := sg.Search(context.Background(), "Radiohead", "London", "2024-06-10", "2024-06-15")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if concerts == nil || len(concerts) != 0 {
			t.Errorf("expected empty non-nil result, got %v", concerts)
		}
	})

	t.Run("Malformed Body Is Fail-Soft", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		sg := NewSeatGeek(SeatGeekOpts{BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := sg.Search(context.Background(), "Radiohead", "London", "2024-06-10", "2024-06-15")
		if err != nil || len(concerts) != 0 {
			t.Errorf("expected empty result and no error, got %v, %v", concerts, err)
		}
	})

	t.Run("Invalid Window", func(t *testing.T) {
		sg := NewSeatGeek(SeatGeekOpts{BaseURL: "http://unused", Logger: quietLogger()})

		_, err := sg.Search(context.Background(), "Radiohead", "London", "next week", "2024-06-15")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		_, err = sg.Search(context.Background(), "Radiohead", "London", "2024-06-16", "2024-06-15")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for reversed window, got %v", err)
		}
	})
}

func TestBandsintown(t *testing.T) {
	const body = `[
		{"datetime":"2024-06-12T19:30:00","url":"https://bit/1","venue":{"name":"O2 Arena","city":"London","country":"United Kingdom"}},
		{"datetime":"2024-06-20T19:30:00","url":"https://bit/2","venue":{"name":"Zenith","city":"Paris","country":"France"}},
		{"datetime":"2024-06-22T19:30:00","url":"","venue":{"name":"Hall","city":"East London","country":"South Africa"}}
	]`

	t.Run("Search", func(t *testing.T) {
		var gotPath, gotDate, gotAppID string
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotDate = r.URL.Query().Get("date")
			gotAppID = r.URL.Query().Get("app_id")
			w.Write([]byte(body))
		})

		b := NewBandsintown(BandsintownOpts{AppID: "app", BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := b.Search(context.Background(), "Radiohead", "london, UK", "2024-06-10", "2024-06-30")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotPath != "/artists/Radiohead/events" {
			t.Errorf("unexpected path %s", gotPath)
		}
		if gotDate != "2024-06-10,2024-06-30" {
			t.Errorf("unexpected date range %s", gotDate)
		}
		if gotAppID != "app" {
			t.Errorf("unexpected app_id %s", gotAppID)
		}

		if len(concerts) != 2 {
			t.Fatalf("expected 2 concerts matching city substring, got %d", len(concerts))
		}
		if concerts[0].Venue != "O2 Arena - London, United Kingdom" {
			t.Errorf("unexpected venue %q", concerts[0].Venue)
		}
		if concerts[0].Source != "Bandsintown" {
			t.Errorf("unexpected source %s", concerts[0].Source)
		}
		if concerts[0].LowestPrice.Available() {
			t.Error("expected no price from Bandsintown")
		}
		if concerts[1].TicketsURL != models.NotAvailable {
			t.Errorf("expected N/A url, got %q", concerts[1].TicketsURL)
		}
	})

	t.Run("Error Object Is Fail-Soft", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errorMessage":"[NotFound] The artist was not found"}`))
		})

		b := NewBandsintown(BandsintownOpts{BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := b.Search(context.Background(), "Nobody", "London", "2024-06-10", "2024-06-30")
		if err != nil || len(concerts) != 0 {
			t.Errorf("expected empty result and no error, got %v, %v", concerts, err)
		}
	})

	t.Run("Artist Path Escaping", func(t *testing.T) {
		tests := []struct {
			artist   string
			expected string
		}{
			{"Radiohead", "Radiohead"},
			{"Sigur Rós", "Sigur%20R%C3%B3s"},
			{"AC/DC", "AC%252FDC"},
			{"Who?", "Who%253F"},
		}

		for _, tt := range tests {
			t.Run(tt.artist, func(t *testing.T) {
				if got := bandsintownArtistPath(tt.artist); got != tt.expected {
					t.Errorf("expected %q, got %q", tt.expected, got)
				}
			})
		}
	})
}

func TestSongkick(t *testing.T) {
	const locations = `{"resultsPage":{"results":{"location":[{"metroArea":{"id":24426,"displayName":"London"}}]}}}`
	const events = `{"resultsPage":{"results":{"event":[
		{"uri":"https://sk/1","start":{"date":"2024-06-12","datetime":"2024-06-12T20:00:00+0100"},
		 "performance":[{"displayName":"Radiohead"}],
		 "venue":{"displayName":"O2 Arena"},"location":{"city":"London, UK"}},
		{"uri":"https://sk/2","start":{"date":"2024-06-13","datetime":null},
		 "performance":[{"displayName":"RADIOHEAD"}],
		 "venue":{"displayName":"Roundhouse"},"location":{"city":"London, UK"}},
		{"uri":"https://sk/3","start":{"date":"2024-06-14"},
		 "performance":[{"displayName":"Thom Yorke"}],
		 "venue":{"displayName":"Barbican"},"location":{"city":"London, UK"}}
	]}}}`

	t.Run("Search", func(t *testing.T) {
		var locationQuery, metro string
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/search/locations.json":
				locationQuery = r.URL.Query().Get("query")
				w.Write([]byte(locations))
			case "/events.json":
				metro = r.URL.Query().Get("location")
				w.Write([]byte(events))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

		s := NewSongkick(SongkickOpts{APIKey: "key", BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := s.Search(context.Background(), "Radiohead", "London, UK", "2024-06-10", "2024-06-30")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if locationQuery != "London" {
			t.Errorf("expected city token query, got %q", locationQuery)
		}
		if metro != "sk:24426" {
			t.Errorf("expected metro area location, got %q", metro)
		}

		if len(concerts) != 2 {
			t.Fatalf("expected 2 concerts, got %d", len(concerts))
		}
		if concerts[0].Venue != "O2 Arena - London, UK" {
			t.Errorf("unexpected venue %q", concerts[0].Venue)
		}
		if concerts[0].Date != "2024-06-12T20:00:00+0100" {
			t.Errorf("expected datetime, got %q", concerts[0].Date)
		}
		if concerts[1].Date != "2024-06-13" {
			t.Errorf("expected date fallback, got %q", concerts[1].Date)
		}
		if concerts[1].Source != "Songkick" {
			t.Errorf("unexpected source %s", concerts[1].Source)
		}
	})

	t.Run("Unknown Location", func(t *testing.T) {
		var eventCalls int
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/events.json" {
				eventCalls++
			}
			w.Write([]byte(`{"resultsPage":{"results":{}}}`))
		})

		s := NewSongkick(SongkickOpts{BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := s.Search(context.Background(), "Radiohead", "Atlantis", "2024-06-10", "2024-06-30")
		if err != nil || len(concerts) != 0 {
			t.Errorf("expected empty result and no error, got %v, %v", concerts, err)
		}
		if eventCalls != 0 {
			t.Errorf("expected no event lookup without a metro area, got %d", eventCalls)
		}
	})

	t.Run("Events Failure Is Fail-Soft", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/events.json" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(locations))
		})

		s := NewSongkick(SongkickOpts{BaseURL: srv.URL, Logger: quietLogger()})
		concerts, err := s.Search(context.Background(), "Radiohead", "London", "2024-06-10", "2024-06-30")
		if err != nil || len(concerts) != 0 {
			t.Errorf("expected empty result and no error, got %v, %v", concerts, err)
		}
	})
}

func TestClient(t *testing.T) {
	t.Run("Status Error", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		c := NewClient(ClientOpts{})
		_, err := c.Get(context.Background(), srv.URL, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Transport Error", func(t *testing.T) {
		rt := th.NewMockRoundTripper(nil, errors.New("connection refused"))
		c := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: rt}})

		_, err := c.Get(context.Background(), "http://example.invalid", nil)
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected transport error, got %v", err)
		}
	})

	t.Run("Body Read Error", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &th.FCloser{}, Header: http.Header{}}
		c := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: th.NewMockRoundTripper(resp, nil)}})

		_, err := c.Get(context.Background(), "http://example.invalid", nil)
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})

		c := NewClient(ClientOpts{Timeout: 20 * time.Millisecond})
		if _, err := c.Get(context.Background(), srv.URL, nil); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(ClientOpts{RequestsPerSecond: 1})
		if _, err := c.Get(ctx, "http://example.invalid", nil); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestAggregator(t *testing.T) {
	concert := func(source string) models.Concert {
		return models.NewConcert(source, "Radiohead", "O2", "London", "2024-06-12", "", models.Price{}, models.Price{})
	}

	t.Run("Concatenates In Provider Order", func(t *testing.T) {
		a := th.NewMockProvider("A", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			return []models.Concert{concert("A")}, nil
		})
		b := th.NewMockProvider("B", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			return []models.Concert{concert("B"), concert("B")}, nil
		})

		agg := NewAggregator(quietLogger(), a, b)
		got := agg.SearchAll(context.Background(), "Radiohead", "London", "2024-06-10", "2024-06-15")

		if len(got) != 3 {
			t.Fatalf("expected 3 concerts, got %d", len(got))
		}
		if got[0].Source != "A" || got[1].Source != "B" {
			t.Errorf("unexpected order: %s, %s", got[0].Source, got[1].Source)
		}
		if names := agg.Names(); len(names) != 2 || names[0] != "A" || names[1] != "B" {
			t.Errorf("unexpected names %v", names)
		}
	})

	t.Run("Isolates Errors And Panics", func(t *testing.T) {
		failing := th.NewMockProvider("Failing", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			return nil, errors.New("boom")
		})
		panicking := th.NewMockProvider("Panicking", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			panic("unexpected payload")
		})
		ok := th.NewMockProvider("OK", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			return []models.Concert{concert("OK")}, nil
		})

		agg := NewAggregator(quietLogger(), failing, panicking, ok)
		got := agg.SearchAll(context.Background(), "Radiohead", "London", "2024-06-10", "2024-06-15")

		if len(got) != 1 || got[0].Source != "OK" {
			t.Errorf("expected only the healthy provider's result, got %v", got)
		}
		if len(ok.Calls()) != 1 {
			t.Errorf("expected healthy provider to be called once, got %d", len(ok.Calls()))
		}
	})

	t.Run("Stops When Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		first := th.NewMockProvider("First", func(context.Context, string, string, string, string) ([]models.Concert, error) {
			cancel()
			return []models.Concert{concert("First")}, nil
		})
		second := th.NewMockProvider("Second", nil)

		got := NewAggregator(quietLogger(), first, second).SearchAll(ctx, "Radiohead", "London", "2024-06-10", "2024-06-15")
		if len(got) != 1 {
			t.Errorf("expected results gathered before cancel, got %d", len(got))
		}
		if len(second.Calls()) != 0 {
			t.Error("expected remaining providers to be skipped")
		}
	})
}

func TestFromConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		if got := FromConfig(cfg, quietLogger()); len(got) != 0 {
			t.Errorf("expected no providers with placeholder credentials, got %d", len(got))
		}
	})

	t.Run("Enabled With Credentials", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Providers.SeatGeek = shared.SeatGeekConfig{Enabled: true, ClientID: "id", ClientSecret: "secret"}
		cfg.Providers.Bandsintown = shared.BandsintownConfig{Enabled: false, AppID: "app"}
		cfg.Providers.Songkick = shared.SongkickConfig{Enabled: true, APIKey: "key"}

		got := FromConfig(cfg, quietLogger())
		if len(got) != 2 {
			t.Fatalf("expected 2 providers, got %d", len(got))
		}
		if got[0].Name() != "SeatGeek" || got[1].Name() != "Songkick" {
			t.Errorf("unexpected providers %s, %s", got[0].Name(), got[1].Name())
		}
	})
}
