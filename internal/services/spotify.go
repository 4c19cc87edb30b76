// Spotify implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// addTracksCap is the Spotify per-call limit on playlist track additions.
	addTracksCap = 100
)

// OAuthService is implemented by catalogs that authenticate through the OAuth2
// authorization-code flow.
type OAuthService interface {
	Catalog
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	URI          string          `json:"uri"`
	PreviewURL   string          `json:"preview_url"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type searchTracksPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

type searchResponse struct {
	Tracks searchTracksPage `json:"tracks"`
}

// SpotifyPlaylist represents the playlist resource returned on creation.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements the Catalog interface against the Spotify Web API.
// Uses [oauth2] for authentication.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	baseURL        string
	onTokenRefresh func(*oauth2.Token)
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
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate installs credentials for API calls. Expects either an
// "access_token" or an "auth_code" entry.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{AccessToken: accessToken})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// OAuthenticate installs a previously obtained OAuth2 token. The underlying
// HTTP client refreshes it transparently; refreshed tokens are reported
// through the registered callback so they can be persisted.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrMissingCredentials)
	}
	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.notifyTokenRefresh,
	}
	s.httpClient = oauth2.NewClient(ctx, source)
	return nil
}

// Authenticated reports whether a bearer credential is installed.
func (s *SpotifyService) Authenticated() bool {
	return s.token != nil && s.token.AccessToken != ""
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback server.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to be invoked whenever the token source
// produces a new token.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

func (s *SpotifyService) notifyTokenRefresh(token *oauth2.Token) {
	s.token = token
	if s.onTokenRefresh != nil {
		s.onTokenRefresh(token)
	}
}

// doRequest performs an authenticated HTTP request against the Spotify API.
// body, when non-nil, is JSON-encoded; result, when non-nil, receives the
// decoded response.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if !s.Authenticated() {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", shared.ErrTokenExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&ae); decodeErr == nil && ae.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, ae.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*User, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &User{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// SearchTracks searches the catalog for tracks matching query. The query may
// be free text or a phrase-scoped string such as `track:"hello"`. Candidates
// are returned in the catalog's ranking order.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.TrackRef, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackRef, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, trackRef(item))
	}
	return tracks, nil
}

// CreatePlaylist creates an empty playlist owned by ownerID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name, description string, public bool) (*models.PlaylistHandle, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id", shared.ErrMissingArgument)
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.PlaylistHandle{ID: playlist.ID, ExternalURL: playlist.ExternalURLs.Spotify}, nil
}

// AddTracks appends uris to the playlist in order. Callers add more than 100
// tracks by issuing multiple calls; the per-call cap is enforced here.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > addTracksCap {
		return fmt.Errorf("%w: at most %d uris per call", shared.ErrInvalidArgument, addTracksCap)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": uris}, nil)
}

func trackRef(t SpotifyTrack) models.TrackRef {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}
	return models.TrackRef{
		ID:          t.ID,
		Title:       t.Name,
		Artists:     artists,
		URI:         t.URI,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs.Spotify,
	}
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and reports new tokens
// through a callback so refreshed credentials can be persisted.
type refreshableTokenSource struct {
	mu       sync.Mutex
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != r.last {
		r.last = token.AccessToken
		if r.callback != nil {
			r.callback(token)
		}
	}

	return token, nil
}
