// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/services"
)

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

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockCatalog is a configurable test double for [services.Catalog].
//
// Tracks maps a query string to the candidates that query returns. Queries
// absent from the map return an empty result set unless FailAll or FailQueries
// marks them as transport failures. Calls records every search query in order.
type MockCatalog struct {
	Tracks      map[string][]models.TrackRef
	FailAll     bool
	FailQueries map[string]bool

	UserID      string
	UserName    string
	PlaylistID  string
	PlaylistURL string

	CreateErr error
	AddErr    error
	UserErr   error

	mu       sync.Mutex
	Calls    []string
	Added    [][]string
	Created  []models.PlaylistDraft
	authed   bool
	unauthed bool
}

func (m *MockCatalog) Name() string { return "mock" }

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	m.authed = true
	return nil
}

// Authenticated reports true unless SetUnauthenticated was called.
func (m *MockCatalog) Authenticated() bool { return !m.unauthed }

// SetUnauthenticated makes the mock report a missing credential.
func (m *MockCatalog) SetUnauthenticated() { m.unauthed = true }

func (m *MockCatalog) CurrentUser(ctx context.Context) (*services.User, error) {
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	id := m.UserID
	if id == "" {
		id = "mock-user"
	}
	return &services.User{ID: id, DisplayName: m.UserName}, nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.TrackRef, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, query)
	m.mu.Unlock()

	if m.FailAll || m.FailQueries[query] {
		return nil, errors.New("search unavailable")
	}

	if tracks, ok := m.Tracks[query]; ok {
		if limit > 0 && len(tracks) > limit {
			return tracks[:limit], nil
		}
		return tracks, nil
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, ownerID, name, description string, public bool) (*models.PlaylistHandle, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	m.Created = append(m.Created, models.PlaylistDraft{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Public:      public,
	})
	m.mu.Unlock()

	id := m.PlaylistID
	if id == "" {
		id = "mock-playlist"
	}
	url := m.PlaylistURL
	if url == "" {
		url = "https://example.com/playlist/" + id
	}
	return &models.PlaylistHandle{ID: id, ExternalURL: url}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.mu.Lock()
	batch := make([]string, len(uris))
	copy(batch, uris)
	m.Added = append(m.Added, batch)
	m.mu.Unlock()
	return nil
}

// SearchCalls returns a snapshot of the queries issued so far.
func (m *MockCatalog) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	copy(out, m.Calls)
	return out
}

// AddedBatches returns a snapshot of the URI batches added so far.
func (m *MockCatalog) AddedBatches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.Added))
	for i, batch := range m.Added {
		out[i] = append([]string(nil), batch...)
	}
	return out
}

// Track builds a TrackRef for a title with a deterministic ID and URI.
func Track(title string) models.TrackRef {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	return models.TrackRef{
		ID:          slug,
		Title:       title,
		Artists:     []string{"Mock Artist"},
		URI:         fmt.Sprintf("spotify:track:%s", slug),
		ExternalURL: fmt.Sprintf("https://example.com/track/%s", slug),
	}
}

// ExactQuery builds the phrase-scoped query the resolver issues for a word.
func ExactQuery(word string) string {
	return fmt.Sprintf("track:%q", word)
}

// MemoryCache is an in-memory [tasks.TrackCache] for tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]models.TrackRef
	GetErr  error
	PutErr  error
	Puts    []string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]models.TrackRef{}}
}

func (c *MemoryCache) Get(ctx context.Context, term string) (*models.TrackRef, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if track, ok := c.entries[term]; ok {
		return &track, nil
	}
	return nil, nil
}

func (c *MemoryCache) Put(ctx context.Context, term string, track models.TrackRef) error {
	if c.PutErr != nil {
		return c.PutErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[term] = track
	c.Puts = append(c.Puts, term)
	return nil
}

// Seed stores a track under term without going through Put bookkeeping.
func (c *MemoryCache) Seed(term string, track models.TrackRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[term] = track
}
