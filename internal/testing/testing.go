// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/gigx/internal/models"
)

// SearchCall records one invocation of [MockProvider.Search].
type SearchCall struct {
	Artist   string
	Location string
	Start    string
	End      string
}

// MockProvider is a test double for [concerts.Provider]
type MockProvider struct {
	ProviderName string
	SearchFunc   func(ctx context.Context, artist, location, start, end string) ([]models.Concert, error)

	mu    sync.Mutex
	calls []SearchCall
}

func NewMockProvider(name string, fn func(ctx context.Context, artist, location, start, end string) ([]models.Concert, error)) *MockProvider {
	return &MockProvider{ProviderName: name, SearchFunc: fn}
}

func (m *MockProvider) Name() string { return m.ProviderName }

func (m *MockProvider) Search(ctx context.Context, artist, location, start, end string) ([]models.Concert, error) {
	m.mu.Lock()
	m.calls = append(m.calls, SearchCall{Artist: artist, Location: location, Start: start, End: end})
	m.mu.Unlock()

	if m.SearchFunc == nil {
		return []models.Concert{}, nil
	}
	return m.SearchFunc(ctx, artist, location, start, end)
}

// Calls returns a copy of the recorded searches.
func (m *MockProvider) Calls() []SearchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SearchCall(nil), m.calls...)
}

// MockArtistSource is a test double for services.ArtistSource
type MockArtistSource struct {
	Followed []models.Artist
	Top      []models.Artist
	Err      error
}

func (m *MockArtistSource) FollowedArtists(context.Context) ([]models.Artist, error) {
	return m.Followed, m.Err
}

func (m *MockArtistSource) TopArtists(context.Context) ([]models.Artist, error) {
	return m.Top, m.Err
}

// MockCalendar is a test double for services.CalendarSource
type MockCalendar struct {
	Items []models.CalendarEvent
	Err   error
}

func (m *MockCalendar) Name() string { return "Mock" }

func (m *MockCalendar) Events(context.Context, time.Time, time.Time) ([]models.CalendarEvent, error) {
	return m.Items, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
