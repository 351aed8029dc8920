package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleOAuth implements [OAuthService] for read-only Google Calendar access.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth builds the OAuth config from a downloaded client credentials file.
func NewGoogleOAuth(credentialsJSON []byte, redirectURL string) (*GoogleOAuth, error) {
	config, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google credentials: %v", shared.ErrMissingCredentials, err)
	}
	if redirectURL != "" {
		config.RedirectURL = redirectURL
	}
	return &GoogleOAuth{config: config}, nil
}

func (g *GoogleOAuth) Name() string { return "Google" }

// GetAuthURL returns the consent URL; offline access requests a refresh token.
func (g *GoogleOAuth) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// Client returns an HTTP client that refreshes token and reports refreshed tokens to onRefresh.
func (g *GoogleOAuth) Client(ctx context.Context, token *oauth2.Token, onRefresh func(*oauth2.Token)) *http.Client {
	return oauth2.NewClient(ctx, &refreshableTokenSource{
		source:   g.config.TokenSource(ctx, token),
		callback: onRefresh,
		last:     token,
	})
}

// GoogleCalendar implements [CalendarSource] over the Calendar v3 API.
type GoogleCalendar struct {
	service    *calendar.Service
	calendarID string
}

// NewGoogleCalendar creates a calendar source. Extra options are passed to [calendar.NewService].
func NewGoogleCalendar(ctx context.Context, httpClient *http.Client, calendarID string, opts ...option.ClientOption) (*GoogleCalendar, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &GoogleCalendar{service: service, calendarID: calendarID}, nil
}

func (g *GoogleCalendar) Name() string { return "Google Calendar" }

// Events lists single (expanded) events between from and to, ordered by start time.
func (g *GoogleCalendar) Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	call := g.service.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	events := []models.CalendarEvent{}
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			events = append(events, models.CalendarEvent{
				ID:       item.Id,
				Summary:  item.Summary,
				Location: item.Location,
				Start:    eventTime(item.Start),
				End:      eventTime(item.End),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list calendar events: %w", shared.ErrAPIRequest, err)
	}
	return events, nil
}

// eventTime prefers the timed value and falls back to the all-day date.
func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
