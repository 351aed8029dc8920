package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

// ICSCalendar implements [CalendarSource] over a published iCalendar feed or a local .ics file.
type ICSCalendar struct {
	url        string
	httpClient *http.Client
}

// NewICSCalendar creates a calendar source for the feed at url. Anything other than an http(s) URL is read as a file path.
func NewICSCalendar(url string, httpClient *http.Client) *ICSCalendar {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ICSCalendar{url: url, httpClient: httpClient}
}

func (c *ICSCalendar) Name() string { return "ICS" }

// Events reads the feed and returns events overlapping [from, to].
func (c *ICSCalendar) Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	body, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	cal, err := ics.ParseCalendar(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ics feed: %w", err)
	}

	events := []models.CalendarEvent{}
	for _, component := range cal.Events() {
		if component.GetProperty(ics.ComponentPropertyDtStart) == nil {
			continue
		}
		start, err := component.GetStartAt()
		if err != nil {
			continue
		}

		end := start
		if component.GetProperty(ics.ComponentPropertyDtEnd) != nil {
			if t, err := component.GetEndAt(); err == nil {
				end = t
			}
		}

		if end.Before(from) || start.After(to) {
			continue
		}

		allDay := isAllDay(component.GetProperty(ics.ComponentPropertyDtStart))
		events = append(events, models.CalendarEvent{
			ID:       propertyValue(component, ics.ComponentPropertyUniqueId),
			Summary:  propertyValue(component, ics.ComponentPropertySummary),
			Location: propertyValue(component, ics.ComponentPropertyLocation),
			Start:    formatEventTime(start, allDay),
			End:      formatEventTime(end, allDay),
		})
	}
	return events, nil
}

func (c *ICSCalendar) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.url, "http://") && !strings.HasPrefix(c.url, "https://") {
		f, err := os.Open(c.url)
		if err != nil {
			return nil, fmt.Errorf("failed to open ics file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: ics feed status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return resp.Body, nil
}

// icsText decodes RFC 5545 TEXT escapes.
var icsText = strings.NewReplacer(`\\`, `\`, `\,`, ",", `\;`, ";", `\n`, "\n", `\N`, "\n")

func propertyValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	if p := ev.GetProperty(prop); p != nil {
		return icsText.Replace(p.Value)
	}
	return ""
}

func isAllDay(p *ics.IANAProperty) bool {
	for _, v := range p.ICalParameters[string(ics.ParameterValue)] {
		if v == "DATE" {
			return true
		}
	}
	return len(p.Value) == len("20060102")
}

func formatEventTime(t time.Time, allDay bool) string {
	if allDay {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
