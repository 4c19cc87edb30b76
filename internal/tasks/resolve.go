package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/services"
	"github.com/bmckenna/saylist/internal/shared"
)

// Resolver maps a single search term to the best candidate track in the
// catalog. The zero value is not usable; construct with NewResolver.
type Resolver struct {
	catalog services.Catalog
	limit   int
}

// NewResolver creates a Resolver that searches catalog, requesting up to
// limit candidates per query.
func NewResolver(catalog services.Catalog, limit int) *Resolver {
	if limit <= 0 {
		limit = 5
	}
	return &Resolver{catalog: catalog, limit: limit}
}

// attempt is one rung of the resolution ladder.
type attempt struct {
	query string // catalog query string
	word  string // the word or fallback this query is built from
	exact bool   // phrase-scoped query, candidates must match titles exactly
}

// ladder builds the ordered query attempts for a term: exact phrase on the
// word, relaxed free text on the word, then the same pair per fallback.
func ladder(term models.SearchTerm) []attempt {
	attempts := make([]attempt, 0, 2+2*len(term.Fallbacks))
	attempts = append(attempts,
		attempt{query: fmt.Sprintf("track:%q", term.Normalized), word: term.Normalized, exact: true},
		attempt{query: term.Normalized, word: term.Normalized, exact: false},
	)
	for _, alt := range term.Fallbacks {
		attempts = append(attempts,
			attempt{query: fmt.Sprintf("track:%q", alt), word: alt, exact: true},
			attempt{query: alt, word: alt, exact: false},
		)
	}
	return attempts
}

// Resolve walks the query ladder for term and returns an outcome. It never
// returns an error: transport failures and empty result sets are folded into
// the outcome kind.
//
// An exact attempt accepts only candidates whose normalized title equals the
// normalized query word. A relaxed attempt prefers such a candidate but
// otherwise accepts the catalog's top hit as a best-effort match, so a relaxed
// hit on the word wins before any fallback is tried.
func (r *Resolver) Resolve(ctx context.Context, term models.SearchTerm) models.ResolutionOutcome {
	var failures []error
	succeeded := false

	for _, a := range ladder(term) {
		candidates, err := r.catalog.SearchTracks(ctx, a.query, r.limit)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", a.query, err))
			continue
		}
		succeeded = true

		track, exact := pick(a, candidates)
		if track != nil {
			return models.ResolutionOutcome{
				Term:  term,
				Kind:  models.Matched,
				Track: track,
				Exact: exact,
				Query: a.query,
			}
		}
	}

	if !succeeded && len(failures) > 0 {
		return models.ResolutionOutcome{
			Term: term,
			Kind: models.LookupFailed,
			Err:  fmt.Errorf("%w: %w", shared.ErrAPIRequest, errors.Join(failures...)),
		}
	}

	return models.ResolutionOutcome{Term: term, Kind: models.NoMatch}
}

// pick selects a candidate for one attempt. Returns nil when the attempt
// yields nothing acceptable.
func pick(a attempt, candidates []models.TrackRef) (*models.TrackRef, bool) {
	want := shared.NormalizeTitle(a.word)

	for i := range candidates {
		if shared.NormalizeTitle(candidates[i].Title) == want {
			return &candidates[i], true
		}
	}

	if !a.exact && len(candidates) > 0 {
		return &candidates[0], false
	}

	return nil, false
}

// cacheQuery marks outcomes satisfied from the local track cache.
const cacheQuery = "cache"

// FromCache wraps a cached track into a matched outcome.
func FromCache(term models.SearchTerm, track models.TrackRef) models.ResolutionOutcome {
	exact := shared.NormalizeTitle(track.Title) == shared.NormalizeTitle(term.Raw)
	return models.ResolutionOutcome{
		Term:  term,
		Kind:  models.Matched,
		Track: &track,
		Exact: exact,
		Query: cacheQuery,
	}
}

// Cached reports whether the outcome was satisfied without a catalog call.
func Cached(outcome models.ResolutionOutcome) bool {
	return outcome.Query == cacheQuery
}
