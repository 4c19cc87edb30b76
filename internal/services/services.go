// package services defines interface Catalog for interacting with a remote
// music catalog and playlist API over HTTP.
package services

import (
	"context"

	"github.com/bmckenna/saylist/internal/models"
)

// Catalog defines the operations the resolution and assembly pipeline needs
// from a music service.
type Catalog interface {
	// Authenticate installs credentials for subsequent calls. Accepts either
	// an "access_token" or an "auth_code" entry.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Authenticated reports whether a bearer credential is installed.
	Authenticated() bool

	// CurrentUser retrieves the profile of the authenticated user.
	CurrentUser(ctx context.Context) (*User, error)

	// SearchTracks performs a free-text or phrase-scoped track search and
	// returns up to limit candidates ranked by the catalog.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.TrackRef, error)

	// CreatePlaylist creates an empty playlist owned by ownerID.
	CreatePlaylist(ctx context.Context, ownerID, name, description string, public bool) (*models.PlaylistHandle, error)

	// AddTracks appends up to 100 track URIs to a playlist in order.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// User represents the authenticated account on the catalog service.
type User struct {
	ID          string
	DisplayName string
}
