package models

import (
	"time"
)

// SearchTerm is a normalized unit derived from one sentence word.
type SearchTerm struct {
	Raw        string   // surface form as typed, for display
	Normalized string   // lowercased, punctuation-trimmed form used for matching
	Fallbacks  []string // alternate search strings tried when the term itself yields nothing
}

// TrackRef is a resolved catalog track.
type TrackRef struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	URI         string   `json:"uri"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
}

// OutcomeKind discriminates the per-word resolution result.
type OutcomeKind int

const (
	// Matched means a track was selected for the word.
	Matched OutcomeKind = iota
	// NoMatch means the catalog answered but nothing acceptable was found.
	NoMatch
	// LookupFailed means every catalog call for the word failed.
	LookupFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NoMatch:
		return "no_match"
	case LookupFailed:
		return "lookup_failed"
	default:
		return ""
	}
}

// ResolutionOutcome is the per-word result of resolution. Exactly one outcome
// is produced per input term, in input order.
type ResolutionOutcome struct {
	Term  SearchTerm
	Kind  OutcomeKind
	Track *TrackRef // set only when Kind is Matched
	Exact bool      // the selected track's normalized title equals the query's
	Query string    // the search string that produced the match (term or fallback)
	Err   error     // set only when Kind is LookupFailed
}

// PlaylistDraft is the playlist being built from matched outcomes.
type PlaylistDraft struct {
	OwnerID     string
	Name        string
	Description string
	Public      bool
	TrackURIs   []string // matched URIs in sentence order
}

// PlaylistHandle identifies a created playlist.
type PlaylistHandle struct {
	ID          string `json:"id"`
	ExternalURL string `json:"external_url"`
}

// Model defines the base interface for all persistent entities in the cache
// database.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
