package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPrice(t *testing.T) {
	t.Run("Zero Value Is Not Available", func(t *testing.T) {
		var p Price
		if p.Available() {
			t.Error("expected zero price to be unavailable")
		}
		if p.String() != NotAvailable {
			t.Errorf("expected %q, got %q", NotAvailable, p.String())
		}
	})

	t.Run("PriceFrom", func(t *testing.T) {
		if PriceFrom(nil).Available() {
			t.Error("expected nil amount to be unavailable")
		}
		amount := 45.5
		p := PriceFrom(&amount)
		if !p.Available() || p.Amount() != 45.5 {
			t.Errorf("expected 45.5, got %v", p)
		}
		if p.String() != "45.5" {
			t.Errorf("expected string 45.5, got %s", p.String())
		}
	})

	t.Run("JSON", func(t *testing.T) {
		tt := []struct {
			name  string
			price Price
			want  string
		}{
			{name: "available", price: PriceOf(30), want: "30"},
			{name: "not available", price: Price{}, want: `"N/A"`},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				data, err := json.Marshal(tc.price)
				if err != nil {
					t.Fatalf("marshal failed: %v", err)
				}
				if string(data) != tc.want {
					t.Errorf("expected %s, got %s", tc.want, string(data))
				}

				var decoded Price
				if err := json.Unmarshal(data, &decoded); err != nil {
					t.Fatalf("unmarshal failed: %v", err)
				}
				if decoded != tc.price {
					t.Errorf("expected %v after decode, got %v", tc.price, decoded)
				}
			})
		}

		var p Price
		if err := json.Unmarshal([]byte(`"cheap"`), &p); err == nil {
			t.Error("expected error for non-numeric price")
		}
	})
}

func TestConcert(t *testing.T) {
	t.Run("NewConcert Formats Venue", func(t *testing.T) {
		c := NewConcert("SeatGeek", "Artist A", "Hall", "Paris, FR", "2024-06-01T20:00:00", "", Price{}, Price{})

		if c.Venue != "Hall - Paris, FR" {
			t.Errorf("expected venue 'Hall - Paris, FR', got %s", c.Venue)
		}
		if c.TicketsURL != NotAvailable {
			t.Errorf("expected missing tickets URL to be %s, got %s", NotAvailable, c.TicketsURL)
		}
	})

	t.Run("Key Ignores Source And Price", func(t *testing.T) {
		a := NewConcert("SeatGeek", "X", "Hall", "Paris", "2024-07-01", "u1", PriceOf(10), PriceOf(20))
		b := NewConcert("Songkick", "X", "Hall", "Paris", "2024-07-01", "u2", Price{}, Price{})

		if a.Key() != b.Key() {
			t.Errorf("expected equal keys, got %v and %v", a.Key(), b.Key())
		}
	})
}

func TestLocationHelpers(t *testing.T) {
	tt := []struct {
		location string
		want     string
	}{
		{"Paris, France", "Paris"},
		{"  New York , NY, USA", "New York"},
		{"Berlin", "Berlin"},
		{"", ""},
	}

	for _, tc := range tt {
		if got := CityToken(tc.location); got != tc.want {
			t.Errorf("CityToken(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}

	if got := (TravelPeriod{Location: "Paris, France"}).City(); got != "Paris" {
		t.Errorf("expected Paris, got %s", got)
	}

	if got := JoinLocation("Austin", "", " TX "); got != "Austin, TX" {
		t.Errorf("expected 'Austin, TX', got %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tt := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "date only", value: "2024-06-01", want: "2024-06-01"},
		{name: "utc timestamp", value: "2024-06-01T10:00:00Z", want: "2024-06-01"},
		{name: "offset timestamp", value: "2024-06-10T23:30:00-04:00", want: "2024-06-10"},
		{name: "local timestamp", value: "2024-06-03T19:30:00", want: "2024-06-03"},
		{name: "garbage", value: "next tuesday", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DateOnly(tc.value)
			if (err != nil) != tc.wantErr {
				t.Fatalf("DateOnly(%q) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("DateOnly(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestSearchRun(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Validate", func(t *testing.T) {
		run := NewSearchRun(start, 3, 2, []string{"SeatGeek"})
		if err := run.Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}

		run.Finish(start.Add(-time.Minute), nil)
		if err := run.Validate(); err == nil {
			t.Error("expected error when finish precedes start")
		}

		if err := NewSearchRun(time.Time{}, 0, 0, nil).Validate(); err == nil {
			t.Error("expected error for missing start time")
		}

		if err := NewSearchRun(start, -1, 0, nil).Validate(); err == nil {
			t.Error("expected error for negative counts")
		}
	})

	t.Run("Finish", func(t *testing.T) {
		run := NewSearchRun(start, 1, 1, nil)
		concerts := []Concert{{Artist: "A"}}
		run.Finish(start.Add(time.Minute), concerts)

		if !run.FinishedAt().Equal(start.Add(time.Minute)) {
			t.Errorf("unexpected finish time %v", run.FinishedAt())
		}
		if len(run.Concerts) != 1 {
			t.Errorf("expected 1 concert, got %d", len(run.Concerts))
		}
	})
}
