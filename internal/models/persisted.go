package models

import (
	"fmt"
	"strings"
	"time"
)

// CachedTrack is the persisted form of a resolved word → track mapping.
//
// The normalized search term is the natural key; repeated sentences reuse the
// cached track instead of hitting the catalog again.
type CachedTrack struct {
	id        string
	sequence  int
	term      string
	track     TrackRef
	hits      int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedTrack creates a cache entry for a term resolved to track.
func NewCachedTrack(term string, track TrackRef) *CachedTrack {
	now := time.Now()
	return &CachedTrack{
		term:      term,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedTrack rebuilds a CachedTrack from database columns.
func RestoreCachedTrack(id string, sequence int, term string, track TrackRef, hits int, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedTrack {
	return &CachedTrack{
		id:        id,
		sequence:  sequence,
		term:      term,
		track:     track,
		hits:      hits,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (t *CachedTrack) ID() string { return t.id }
func (t *CachedTrack) Sequence() int { return t.sequence }
func (t *CachedTrack) Term() string { return t.term }
func (t *CachedTrack) Track() TrackRef { return t.track }
func (t *CachedTrack) Hits() int { return t.hits }
func (t *CachedTrack) CreatedAt() time.Time { return t.createdAt }
func (t *CachedTrack) UpdatedAt() time.Time { return t.updatedAt }
func (t *CachedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *CachedTrack) SetID(id string) { t.id = id }
func (t *CachedTrack) SetSequence(seq int) { t.sequence = seq }
func (t *CachedTrack) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }
func (t *CachedTrack) IncrementHits() { t.hits++ }
func (t *CachedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// Validate checks that the cache entry carries the fields required to be
// useful on a later lookup.
func (t *CachedTrack) Validate() error {
	if strings.TrimSpace(t.term) == "" {
		return fmt.Errorf("cached track requires a term")
	}
	if t.track.ID == "" || t.track.URI == "" {
		return fmt.Errorf("cached track requires a track id and uri")
	}
	return nil
}

// PlaylistRecord is the persisted history entry for a created playlist.
type PlaylistRecord struct {
	id           string
	sequence     int
	serviceID    string
	userID       string
	name         string
	description  string
	sentence     string
	trackCount   int
	matchedCount int
	public       bool
	url          string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewPlaylistRecord creates a history entry for a playlist created from
// sentence, owned by userID on the remote service.
func NewPlaylistRecord(serviceID, userID, name, description, sentence string, trackCount, matchedCount int, public bool, url string) *PlaylistRecord {
	now := time.Now()
	return &PlaylistRecord{
		serviceID:    serviceID,
		userID:       userID,
		name:         name,
		description:  description,
		sentence:     sentence,
		trackCount:   trackCount,
		matchedCount: matchedCount,
		public:       public,
		url:          url,
		createdAt:    now,
		updatedAt:    now,
	}
}

// RestorePlaylistRecord rebuilds a PlaylistRecord from database columns.
func RestorePlaylistRecord(id string, sequence int, serviceID, userID, name, description, sentence string, trackCount, matchedCount int, public bool, url string, createdAt, updatedAt time.Time, deletedAt *time.Time) *PlaylistRecord {
	return &PlaylistRecord{
		id:           id,
		sequence:     sequence,
		serviceID:    serviceID,
		userID:       userID,
		name:         name,
		description:  description,
		sentence:     sentence,
		trackCount:   trackCount,
		matchedCount: matchedCount,
		public:       public,
		url:          url,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		deletedAt:    deletedAt,
	}
}

func (p *PlaylistRecord) ID() string { return p.id }
func (p *PlaylistRecord) Sequence() int { return p.sequence }
func (p *PlaylistRecord) ServiceID() string { return p.serviceID }
func (p *PlaylistRecord) UserID() string { return p.userID }
func (p *PlaylistRecord) Name() string { return p.name }
func (p *PlaylistRecord) Description() string { return p.description }
func (p *PlaylistRecord) Sentence() string { return p.sentence }
func (p *PlaylistRecord) TrackCount() int { return p.trackCount }
func (p *PlaylistRecord) MatchedCount() int { return p.matchedCount }
func (p *PlaylistRecord) Public() bool { return p.public }
func (p *PlaylistRecord) URL() string { return p.url }
func (p *PlaylistRecord) CreatedAt() time.Time { return p.createdAt }
func (p *PlaylistRecord) UpdatedAt() time.Time { return p.updatedAt }
func (p *PlaylistRecord) DeletedAt() *time.Time { return p.deletedAt }

func (p *PlaylistRecord) SetID(id string) { p.id = id }
func (p *PlaylistRecord) SetSequence(seq int) { p.sequence = seq }
func (p *PlaylistRecord) SetUpdatedAt(ts time.Time) { p.updatedAt = ts }

// Validate checks the required identity fields of a history entry.
func (p *PlaylistRecord) Validate() error {
	if p.serviceID == "" {
		return fmt.Errorf("playlist record requires a service id")
	}
	if p.userID == "" {
		return fmt.Errorf("playlist record requires a user id")
	}
	if strings.TrimSpace(p.name) == "" {
		return fmt.Errorf("playlist record requires a name")
	}
	return nil
}
