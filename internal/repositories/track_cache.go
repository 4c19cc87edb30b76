package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
)

// artistSeparator joins artist names into the single artists column.
const artistSeparator = ", "

// TrackCacheRepository implements models.Repository[*models.CachedTrack].
//
// Rows are keyed by the normalized search term, one track per word. A hit
// counter records how often a cached entry satisfied a lookup.
type TrackCacheRepository struct {
	db *sql.DB
}

// NewTrackCacheRepository creates a new TrackCacheRepository with the given database connection
func NewTrackCacheRepository(db *sql.DB) *TrackCacheRepository {
	return &TrackCacheRepository{db: db}
}

// Create inserts a new [models.CachedTrack] with generated ID and sequence
func (r *TrackCacheRepository) Create(track *models.CachedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)
	track.SetSequence(sequence)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ref := track.Track()
	query := `
		INSERT INTO tracks (id, sequence, term, track_id, title, artists, uri, preview_url, external_url, hits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.Term(),
		ref.ID,
		ref.Title,
		strings.Join(ref.Artists, artistSeparator),
		ref.URI,
		ref.PreviewURL,
		ref.ExternalURL,
		track.Hits(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cached track: %w", err)
	}

	return nil
}

// Get retrieves a cached track by ID, excluding soft-deleted rows
func (r *TrackCacheRepository) Get(id string) (*models.CachedTrack, error) {
	query := selectCachedTrack + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTerm retrieves the cached track for a normalized word
func (r *TrackCacheRepository) GetByTerm(term string) (*models.CachedTrack, error) {
	query := selectCachedTrack + ` WHERE term = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, term))
}

// Update replaces the track payload for an existing cache entry
func (r *TrackCacheRepository) Update(track *models.CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	ref := track.Track()
	query := `
		UPDATE tracks
		SET track_id = ?, title = ?, artists = ?, uri = ?, preview_url = ?, external_url = ?, hits = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		ref.ID,
		ref.Title,
		strings.Join(ref.Artists, artistSeparator),
		ref.URI,
		ref.PreviewURL,
		ref.ExternalURL,
		track.Hits(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update cached track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cached track not found or already deleted: %s", track.ID())
	}

	return nil
}

// RecordHit increments the hit counter for a term without touching the payload
func (r *TrackCacheRepository) RecordHit(term string) error {
	_, err := r.db.Exec(
		`UPDATE tracks SET hits = hits + 1, updated_at = ? WHERE term = ? AND deleted_at IS NULL`,
		time.Now(), term,
	)
	if err != nil {
		return fmt.Errorf("failed to record cache hit: %w", err)
	}
	return nil
}

// Delete soft-deletes a cached track by ID
func (r *TrackCacheRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cached track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cached track not found or already deleted: %s", id)
	}

	return nil
}

// Clear soft-deletes every cache entry and returns the number of rows cleared
func (r *TrackCacheRepository) Clear() (int, error) {
	result, err := r.db.Exec(`UPDATE tracks SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear track cache: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

// CacheStats summarizes the live contents of the track cache.
type CacheStats struct {
	Entries   int `json:"entries"`
	TotalHits int `json:"total_hits"`
}

// Stats reports the number of live entries and accumulated hits
func (r *TrackCacheRepository) Stats() (*CacheStats, error) {
	var stats CacheStats
	err := r.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM tracks WHERE deleted_at IS NULL`,
	).Scan(&stats.Entries, &stats.TotalHits)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	return &stats, nil
}

// List retrieves cached tracks matching the given criteria, excluding soft-deleted rows
func (r *TrackCacheRepository) List(criteria map[string]any) ([]*models.CachedTrack, error) {
	query := selectCachedTrack + ` WHERE deleted_at IS NULL`
	args := []any{}

	if term, ok := criteria["term"].(string); ok && term != "" {
		query += " AND term = ?"
		args = append(args, term)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.CachedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached tracks: %w", err)
	}

	return tracks, nil
}

const selectCachedTrack = `
	SELECT id, sequence, term, track_id, title, artists, uri, preview_url, external_url, hits, created_at, updated_at, deleted_at
	FROM tracks`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TrackCacheRepository) scanOne(row *sql.Row) (*models.CachedTrack, error) {
	track, err := scanCachedTrack(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cached track not found")
	}
	return track, err
}

func (r *TrackCacheRepository) scanRow(rows *sql.Rows) (*models.CachedTrack, error) {
	return scanCachedTrack(rows)
}

func scanCachedTrack(scanner rowScanner) (*models.CachedTrack, error) {
	var (
		id, term, trackID, title, artists, uri string
		sequence, hits                         int
		previewURL, externalURL                sql.NullString
		createdAt, updatedAt                   time.Time
		deletedAt                              sql.NullTime
	)

	err := scanner.Scan(&id, &sequence, &term, &trackID, &title, &artists, &uri,
		&previewURL, &externalURL, &hits, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	ref := models.TrackRef{
		ID:          trackID,
		Title:       title,
		URI:         uri,
		PreviewURL:  previewURL.String,
		ExternalURL: externalURL.String,
	}
	if artists != "" {
		ref.Artists = strings.Split(artists, artistSeparator)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreCachedTrack(id, sequence, term, ref, hits, createdAt, updatedAt, deleted), nil
}

// CacheAdapter bridges TrackCacheRepository to the resolution pipeline's
// cache interface. Lookup misses and storage failures surface as errors the
// pipeline treats as cache misses, never as resolution failures.
type CacheAdapter struct {
	repo *TrackCacheRepository
}

// NewCacheAdapter creates a new CacheAdapter over the given repository
func NewCacheAdapter(repo *TrackCacheRepository) *CacheAdapter {
	return &CacheAdapter{repo: repo}
}

// Get returns the cached track for a normalized term and records the hit.
func (a *CacheAdapter) Get(ctx context.Context, term string) (*models.TrackRef, error) {
	cached, err := a.repo.GetByTerm(term)
	if err != nil || cached == nil {
		return nil, err
	}

	// Hit bookkeeping is best effort.
	_ = a.repo.RecordHit(term)

	ref := cached.Track()
	return &ref, nil
}

// Put stores or refreshes the cached track for a normalized term.
func (a *CacheAdapter) Put(ctx context.Context, term string, track models.TrackRef) error {
	existing, err := a.repo.GetByTerm(term)
	if err == nil && existing != nil {
		return nil
	}

	err = a.repo.Create(models.NewCachedTrack(term, track))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}
