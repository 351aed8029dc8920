package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is the display value for missing optional fields.
const NotAvailable = "N/A"

// Price is an optional ticket price. The zero value is "not available".
type Price struct {
	amount float64
	valid  bool
}

// PriceOf returns an available [Price].
func PriceOf(amount float64) Price {
	return Price{amount: amount, valid: true}
}

// PriceFrom converts a nullable provider value into a [Price].
func PriceFrom(amount *float64) Price {
	if amount == nil {
		return Price{}
	}
	return PriceOf(*amount)
}

// Available reports whether the provider exposed a price.
func (p Price) Available() bool { return p.valid }

// Amount returns the price, or 0 when not available.
func (p Price) Amount() float64 { return p.amount }

func (p Price) String() string {
	if !p.valid {
		return NotAvailable
	}
	return strconv.FormatFloat(p.amount, 'f', -1, 64)
}

// MarshalJSON encodes available prices as numbers and missing ones as "N/A".
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(p.amount)
}

// UnmarshalJSON accepts a number, null, or the "N/A" sentinel.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `"`+NotAvailable+`"` {
		*p = Price{}
		return nil
	}

	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("invalid price %s: %w", s, err)
	}
	*p = PriceOf(amount)
	return nil
}

// Concert is a listing returned by a concert provider, normalized to a common shape.
//
// Venue is the display string "Venue Name - Location" and is part of the [DedupKey].
// Date is the provider's raw date string.
type Concert struct {
	Artist       string `json:"artist"`
	Source       string `json:"source"`
	Venue        string `json:"venue"`
	Location     string `json:"location"`
	Date         string `json:"date"`
	TicketsURL   string `json:"tickets_url"`
	LowestPrice  Price  `json:"lowest_price"`
	HighestPrice Price  `json:"highest_price"`
}

// NewConcert builds a [Concert] and derives the venue display string from the venue name and location.
func NewConcert(source, artist, venueName, location, date, ticketsURL string, low, high Price) Concert {
	if ticketsURL == "" {
		ticketsURL = NotAvailable
	}
	return Concert{
		Artist:       artist,
		Source:       source,
		Venue:        FormatVenue(venueName, location),
		Location:     location,
		Date:         date,
		TicketsURL:   ticketsURL,
		LowestPrice:  low,
		HighestPrice: high,
	}
}

// Key returns the deduplication triple for this concert.
func (c Concert) Key() DedupKey {
	return DedupKey{Artist: c.Artist, Venue: c.Venue, Date: c.Date}
}

// DedupKey identifies duplicate listings regardless of source or price.
type DedupKey struct {
	Artist string
	Venue  string
	Date   string
}

// FormatVenue joins a venue name and its location as "Name - Location".
func FormatVenue(name, location string) string {
	return fmt.Sprintf("%s - %s", name, location)
}

// JoinLocation joins non-empty location parts with ", ".
func JoinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// CityToken extracts the leading city token from a free-text "City, Region" location.
func CityToken(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

// ParseTimestamp parses an ISO-8601 timestamp or bare date as reported by calendars.
//
// A trailing "Z" is accepted as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// DateOnly formats the calendar date portion of an ISO-8601 timestamp as YYYY-MM-DD.
func DateOnly(value string) (string, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
