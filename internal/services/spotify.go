// Spotify API implementation of [ArtistSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	spotifyPageSize = 50
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

type cursors struct {
	After string `json:"after"`
}

// SpotifyFollowedArtists is the cursor-paginated response of /me/following.
type SpotifyFollowedArtists struct {
	Artists struct {
		Items   []SpotifyArtist `json:"items"`
		Next    *string         `json:"next"`
		Cursors cursors         `json:"cursors"`
		Total   int             `json:"total"`
	} `json:"artists"`
}

// SpotifyTopArtists is the offset-paginated response of /me/top/artists.
type SpotifyTopArtists struct {
	Items  []SpotifyArtist `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Next   *string         `json:"next"`
}

// SpotifyService implements [ArtistSource] for the Spotify Web API.
// Uses [oauth2] for authentication with automatic token refresh.
type SpotifyService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	baseURL     string
	onRefresh   func(*oauth2.Token)
	credentials map[string]string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-follow-read", "user-top-read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		baseURL:     spotifyBaseURL,
		credentials: credentials,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// SetTokenRefreshCallback registers fn to receive every token the client obtains after the initial one.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onRefresh = fn
}

// Authenticate installs token and builds a refreshing HTTP client around it.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrNotAuthenticated)
	}

	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onRefresh,
		last:     token,
	}
	s.httpClient = oauth2.NewClient(ctx, source)
	return nil
}

// doRequest performs an authenticated GET against a Spotify API path or absolute paging URL.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return shared.ErrNotAuthenticated
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: spotify returned 401", shared.ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// FollowedArtists walks the followed-artists cursor until exhausted.
func (s *SpotifyService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	params := url.Values{}
	params.Set("type", "artist")
	params.Set("limit", fmt.Sprint(spotifyPageSize))
	endpoint := "/me/following?" + params.Encode()

	artists := []models.Artist{}
	for endpoint != "" {
		var page SpotifyFollowedArtists
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, a := range page.Artists.Items {
			artists = append(artists, models.Artist(a.Name))
		}

		endpoint = ""
		if page.Artists.Next != nil {
			endpoint = *page.Artists.Next
		}
	}
	return artists, nil
}

// TopArtists returns up to 50 long-term top artists.
func (s *SpotifyService) TopArtists(ctx context.Context) ([]models.Artist, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(spotifyPageSize))
	params.Set("time_range", "long_term")

	var page SpotifyTopArtists
	if err := s.doRequest(ctx, "/me/top/artists?"+params.Encode(), &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Items))
	for _, a := range page.Items {
		artists = append(artists, models.Artist(a.Name))
	}
	return artists, nil
}

// refreshableTokenSource reports tokens whose access token differs from the last one seen.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last *oauth2.Token
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := r.last == nil || r.last.AccessToken != token.AccessToken
	if changed {
		r.last = token
	}
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}
