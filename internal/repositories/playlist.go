package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.PlaylistRecord].
//
// Records every playlist created from a sentence so the history command can
// list past runs.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new [models.PlaylistRecord] with generated ID and sequence
func (r *PlaylistRepository) Create(record *models.PlaylistRecord) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, service_id, user_id, name, description, sentence, track_count, matched_count, public, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.ServiceID(),
		record.UserID(),
		record.Name(),
		record.Description(),
		record.Sentence(),
		record.TrackCount(),
		record.MatchedCount(),
		record.Public(),
		record.URL(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist record: %w", err)
	}

	return nil
}

// Get retrieves a playlist record by ID, excluding soft-deleted rows
func (r *PlaylistRepository) Get(id string) (*models.PlaylistRecord, error) {
	query := selectPlaylistRecord + ` WHERE id = ? AND deleted_at IS NULL`

	record, err := scanPlaylistRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist record not found: %s", id)
	}
	return record, err
}

// Update modifies an existing playlist record
func (r *PlaylistRepository) Update(record *models.PlaylistRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET name = ?, description = ?, track_count = ?, matched_count = ?, public = ?, url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		record.Name(),
		record.Description(),
		record.TrackCount(),
		record.MatchedCount(),
		record.Public(),
		record.URL(),
		now,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a playlist record by ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete playlist record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves playlist records matching the given criteria, newest first
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PlaylistRecord, error) {
	query := selectPlaylistRecord + ` WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist records: %w", err)
	}
	defer rows.Close()

	var records []*models.PlaylistRecord
	for rows.Next() {
		record, err := scanPlaylistRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist records: %w", err)
	}

	return records, nil
}

const selectPlaylistRecord = `
	SELECT id, sequence, service_id, user_id, name, description, sentence, track_count, matched_count, public, url, created_at, updated_at, deleted_at
	FROM playlists`

func scanPlaylistRecord(scanner rowScanner) (*models.PlaylistRecord, error) {
	var (
		id, serviceID, userID, name, sentence string
		description, url                      sql.NullString
		sequence, trackCount, matchedCount    int
		public                                bool
		createdAt, updatedAt                  time.Time
		deletedAt                             sql.NullTime
	)

	err := scanner.Scan(&id, &sequence, &serviceID, &userID, &name, &description, &sentence,
		&trackCount, &matchedCount, &public, &url, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestorePlaylistRecord(id, sequence, serviceID, userID, name, description.String, sentence,
		trackCount, matchedCount, public, url.String, createdAt, updatedAt, deleted), nil
}
