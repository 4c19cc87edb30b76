package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmckenna/saylist/internal/shared"
	"golang.org/x/oauth2"
)

func newTestService(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
	})
	if err != nil {
		t.Fatalf("NewSpotifyService failed: %v", err)
	}

	svc.baseURL = server.URL
	if err := svc.OAuthenticate(context.Background(), &oauth2.Token{AccessToken: "test-token"}); err != nil {
		t.Fatalf("OAuthenticate failed: %v", err)
	}

	return svc, server
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires client_id", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_secret": "s"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("requires client_secret", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_id": "c"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults redirect uri", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "c",
			"client_secret": "s",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.config.RedirectURL != "http://localhost:8080/callback" {
			t.Errorf("unexpected redirect url %q", svc.config.RedirectURL)
		}
	})
}

func TestSpotifyServiceAuthenticate(t *testing.T) {
	t.Run("accepts access token", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "c",
			"client_secret": "s",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if svc.Authenticated() {
			t.Error("expected service to start unauthenticated")
		}

		err = svc.Authenticate(context.Background(), map[string]string{"access_token": "tok"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if !svc.Authenticated() {
			t.Error("expected service to be authenticated")
		}
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc, _ := NewSpotifyService(map[string]string{
			"client_id":     "c",
			"client_secret": "s",
		})
		err := svc.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestSpotifyServiceSearchTracks(t *testing.T) {
	t.Run("parses search results", func(t *testing.T) {
		var gotQuery, gotLimit string
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			gotQuery = r.URL.Query().Get("q")
			gotLimit = r.URL.Query().Get("limit")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"tracks": {
					"items": [
						{
							"id": "t1",
							"name": "Hello",
							"uri": "spotify:track:t1",
							"artists": [{"name": "Adele"}],
							"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
						}
					],
					"total": 1
				}
			}`))
		}))

		tracks, err := svc.SearchTracks(context.Background(), `track:"hello"`, 5)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if gotQuery != `track:"hello"` {
			t.Errorf("unexpected query %q", gotQuery)
		}
		if gotLimit != "5" {
			t.Errorf("unexpected limit %q", gotLimit)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		if tracks[0].Title != "Hello" || tracks[0].URI != "spotify:track:t1" {
			t.Errorf("unexpected track %+v", tracks[0])
		}
		if len(tracks[0].Artists) != 1 || tracks[0].Artists[0] != "Adele" {
			t.Errorf("unexpected artists %v", tracks[0].Artists)
		}
	})

	t.Run("maps 401 to token expiry", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := svc.SearchTracks(context.Background(), "hello", 5)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("surfaces api error message", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"status": 429, "message": "rate limited"}}`))
		}))

		_, err := svc.SearchTracks(context.Background(), "hello", 5)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc, _ := NewSpotifyService(map[string]string{
			"client_id":     "c",
			"client_secret": "s",
		})
		_, err := svc.SearchTracks(context.Background(), "hello", 5)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSpotifyServiceCurrentUser(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "user123", "display_name": "Test User"}`))
	}))

	user, err := svc.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.ID != "user123" || user.DisplayName != "Test User" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestSpotifyServiceCreatePlaylist(t *testing.T) {
	t.Run("creates playlist for owner", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method %q", r.Method)
			}
			if r.URL.Path != "/users/user123/playlists" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "pl1",
				"name": "hello world",
				"external_urls": {"spotify": "https://open.spotify.com/playlist/pl1"}
			}`))
		}))

		handle, err := svc.CreatePlaylist(context.Background(), "user123", "hello world", "", false)
		if err != nil {
			t.Fatalf("CreatePlaylist failed: %v", err)
		}
		if handle.ID != "pl1" {
			t.Errorf("unexpected playlist id %q", handle.ID)
		}
		if handle.ExternalURL != "https://open.spotify.com/playlist/pl1" {
			t.Errorf("unexpected url %q", handle.ExternalURL)
		}
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		_, err := svc.CreatePlaylist(context.Background(), "", "name", "", false)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSpotifyServiceAddTracks(t *testing.T) {
	t.Run("posts uris to playlist", func(t *testing.T) {
		var called bool
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if r.URL.Path != "/playlists/pl1/tracks" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"snapshot_id": "snap"}`))
		}))

		err := svc.AddTracks(context.Background(), "pl1", []string{"spotify:track:t1"})
		if err != nil {
			t.Fatalf("AddTracks failed: %v", err)
		}
		if !called {
			t.Error("expected request to be made")
		}
	})

	t.Run("no-op for empty uris", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		if err := svc.AddTracks(context.Background(), "pl1", nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("enforces per-call cap", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		uris := make([]string, addTracksCap+1)
		for i := range uris {
			uris[i] = "spotify:track:x"
		}
		err := svc.AddTracks(context.Background(), "pl1", uris)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestRefreshableTokenSource(t *testing.T) {
	t.Run("reports new tokens once", func(t *testing.T) {
		var reported []*oauth2.Token
		static := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})
		source := &refreshableTokenSource{
			source:   static,
			callback: func(tok *oauth2.Token) { reported = append(reported, tok) },
		}

		for i := 0; i < 3; i++ {
			if _, err := source.Token(); err != nil {
				t.Fatalf("Token failed: %v", err)
			}
		}

		if len(reported) != 1 {
			t.Errorf("expected 1 callback, got %d", len(reported))
		}
	})

	t.Run("nil callback is safe", func(t *testing.T) {
		source := &refreshableTokenSource{
			source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"}),
		}
		if _, err := source.Token(); err != nil {
			t.Fatalf("Token failed: %v", err)
		}
	})
}
