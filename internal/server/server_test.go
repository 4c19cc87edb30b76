package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

func TestBasicRouter(t *testing.T) {
	t.Run("routes by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in reverse order", func(t *testing.T) {
		var order []string
		middleware := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(middleware("first"), middleware("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order %v", order)
		}
	})

	t.Run("logging middleware passes requests through", func(t *testing.T) {
		logger := log.New(io.Discard)
		router := NewBasicRouter()
		router.Use(Logging(logger))
		router.Handle(http.MethodGet, "/ok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func newOAuthTestHandler(state string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://localhost/authorize",
			TokenURL: "http://localhost/token",
		},
	}
	return NewOAuthHandler(config, state)
}

func TestOAuthHandler(t *testing.T) {
	t.Run("rejects state mismatch", func(t *testing.T) {
		handler := newOAuthTestHandler("expected-state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected error result")
		}
	})

	t.Run("reports provider error when code missing", func(t *testing.T) {
		handler := newOAuthTestHandler("s")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied&error_description=nope", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		err := result.Error()
		if err == nil || !strings.Contains(err.Error(), "access_denied") {
			t.Errorf("expected access_denied in error, got %v", err)
		}
	})

	t.Run("processes callback only once", func(t *testing.T) {
		handler := newOAuthTestHandler("expected-state")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already processed") {
			t.Errorf("expected replay rejection, got %q", rec.Body.String())
		}
	})

	t.Run("serves callback route", func(t *testing.T) {
		handler := newOAuthTestHandler("s")
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})
}
