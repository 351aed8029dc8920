package concerts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/gigx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultTimeout = 15 * time.Second

// ClientOpts configures a [Client].
type ClientOpts struct {
	// HTTPClient is used as-is when set; otherwise a client with Timeout is created.
	HTTPClient *http.Client
	Timeout    time.Duration
	// RequestsPerSecond paces requests; zero or negative disables pacing.
	RequestsPerSecond float64
}

// Client performs bounded, paced GET requests for a single provider.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a [Client] from opts.
func NewClient(opts ClientOpts) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{httpClient: httpClient, limiter: limiter}
}

// Get performs a GET against endpoint with params and returns the response body.
//
// Non-2xx responses are returned as [shared.ErrAPIRequest].
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return body, nil
}

// GetJSON performs [Client.Get] and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
