package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/gigx/internal/shared"
	"golang.org/x/oauth2"
)

type stubExchanger struct {
	token *oauth2.Token
	err   error
	codes []string
}

func (s *stubExchanger) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	s.codes = append(s.codes, code)
	return s.token, s.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ex := &stubExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "Spotify", "state123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Spotify connected") {
			t.Errorf("expected success page, got %s", rec.Body.String())
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "access" {
			t.Errorf("unexpected token %+v", result.Token)
		}
		if len(ex.codes) != 1 || ex.codes[0] != "abc" {
			t.Errorf("expected code to be exchanged, got %v", ex.codes)
		}

		if _, ok := <-h.Result(); ok {
			t.Error("expected result channel to be closed")
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		ex := &stubExchanger{}
		h := NewOAuthHandler(ex, "Spotify", "expected")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
		if len(ex.codes) != 0 {
			t.Error("expected no exchange with forged state")
		}
	})

	t.Run("Denied", func(t *testing.T) {
		h := NewOAuthHandler(&stubExchanger{}, "Google", "s")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		h := NewOAuthHandler(&stubExchanger{err: errors.New("bad code")}, "Google", "s")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=x", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		ex := &stubExchanger{token: &oauth2.Token{AccessToken: "a"}}
		h := NewOAuthHandler(ex, "Spotify", "s")

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=1", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=2", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replay, got %d", rec.Code)
		}
		if len(ex.codes) != 1 {
			t.Errorf("expected a single exchange, got %d", len(ex.codes))
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "pong")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handler(NewOAuthHandler(&stubExchanger{}, "Spotify", "s"))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=bad", nil))

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("Request Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		logger.SetLevel(shared.ParseLogLevel("debug"))

		r := NewBasicRouter()
		r.Use(RequestLogger(logger))
		r.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot?code=secret", nil))

		out := buf.String()
		if !strings.Contains(out, "/teapot") || !strings.Contains(out, "418") {
			t.Errorf("expected path and status in log, got %q", out)
		}
		if strings.Contains(out, "secret") {
			t.Error("query string should not be logged")
		}
	})
}

func TestCallbackServer(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	h := NewOAuthHandler(&stubExchanger{token: &oauth2.Token{AccessToken: "live"}}, "Spotify", "s")
	router := NewBasicRouter()
	router.Handler(h)

	srv, err := Start("127.0.0.1:0", router, logger)
	if err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/callback?state=s&code=c")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	result := <-h.Result()
	if result.Token == nil || result.Token.AccessToken != "live" {
		t.Errorf("unexpected result %+v", result)
	}

	srv.Shutdown()
	if err, ok := <-srv.Errors(); ok {
		t.Errorf("expected clean shutdown, got %v", err)
	}

	t.Run("Port In Use", func(t *testing.T) {
		first, err := Start("127.0.0.1:0", router, logger)
		if err != nil {
			t.Fatalf("failed to start server: %v", err)
		}
		defer first.Shutdown()

		if _, err := Start(first.Addr(), router, logger); err == nil {
			t.Error("expected listen error for a bound port")
		}
	})
}
