package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/services"
	"github.com/bmckenna/saylist/internal/shared"
	"golang.org/x/time/rate"
)

// State enumerates the lifecycle of a generation run.
type State int

const (
	StateIdle State = iota
	StateTokenizing
	StateResolving
	StateAssembling
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTokenizing:
		return "tokenizing"
	case StateResolving:
		return "resolving"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return ""
	}
}

// TrackCache is consulted before the catalog and updated after successful
// matches. Implementations key entries by the normalized term.
type TrackCache interface {
	// Get returns the cached track for term, or nil when absent.
	Get(ctx context.Context, term string) (*models.TrackRef, error)

	// Put stores or refreshes the cached track for term.
	Put(ctx context.Context, term string, track models.TrackRef) error
}

// GenerateOptions configures a generation run.
type GenerateOptions struct {
	Title       string // Playlist title; defaults to the sentence itself
	Description string // Playlist description
	Public      bool   // Playlist visibility
	DryRun      bool   // Resolve only, skip playlist assembly
}

// GenerateResult contains all data from a full generation run.
type GenerateResult struct {
	Sentence        string                     // Input sentence
	Terms           []models.SearchTerm        // Tokenized terms in sentence order
	Outcomes        []models.ResolutionOutcome // Per-term outcomes, index-aligned with Terms
	MatchedCount    int                        // Terms resolved to a track
	NoMatchCount    int                        // Terms the catalog had nothing for
	FailedCount     int                        // Terms whose lookups all failed
	MatchPercentage float64                    // Matched share as percentage
	Playlist        *models.PlaylistHandle     // Created playlist, nil on dry run
	State           State                      // Final lifecycle state
}

// GeneratorEngine defines the sentence-to-playlist pipeline.
type GeneratorEngine interface {
	// Run performs a full generation: tokenize the sentence, resolve every term, assemble the playlist.
	Run(ctx context.Context, sentence string, opts GenerateOptions, progress chan<- ProgressUpdate) (*GenerateResult, error)

	// ResolveAll resolves terms concurrently in sequential chunks, preserving input order.
	ResolveAll(ctx context.Context, terms []models.SearchTerm, progress chan<- ProgressUpdate) []models.ResolutionOutcome

	// Assemble creates the playlist and appends the draft's track URIs in order.
	Assemble(ctx context.Context, draft models.PlaylistDraft, progress chan<- ProgressUpdate) (*models.PlaylistHandle, error)
}

// PlaylistEngine implements GeneratorEngine against a single catalog.
type PlaylistEngine struct {
	catalog     services.Catalog
	resolver    *Resolver
	cache       TrackCache
	synonyms    SynonymTable
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	state       State
	mu          sync.Mutex
}

// EngineOption adjusts a PlaylistEngine at construction.
type EngineOption func(*PlaylistEngine)

// WithCache installs a track cache consulted before catalog lookups.
func WithCache(cache TrackCache) EngineOption {
	return func(e *PlaylistEngine) { e.cache = cache }
}

// WithSynonyms replaces the built-in fallback table.
func WithSynonyms(table SynonymTable) EngineOption {
	return func(e *PlaylistEngine) { e.synonyms = table }
}

// WithConcurrency sets the chunk size for parallel resolution. Values below 1
// fall back to serial resolution.
func WithConcurrency(n int) EngineOption {
	return func(e *PlaylistEngine) {
		if n >= 1 {
			e.concurrency = n
		}
	}
}

// WithRateLimit paces catalog calls at rps requests per second. Zero disables
// pacing.
func WithRateLimit(rps float64) EngineOption {
	return func(e *PlaylistEngine) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithTimeout bounds each term's resolution. Zero disables the bound.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *PlaylistEngine) { e.timeout = d }
}

// NewPlaylistEngine creates a PlaylistEngine resolving against catalog with up
// to searchLimit candidates per query.
func NewPlaylistEngine(catalog services.Catalog, searchLimit int, opts ...EngineOption) *PlaylistEngine {
	engine := &PlaylistEngine{
		catalog:     catalog,
		resolver:    NewResolver(catalog, searchLimit),
		synonyms:    DefaultSynonyms(),
		concurrency: 1,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// State returns the engine's current lifecycle state.
func (e *PlaylistEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *PlaylistEngine) transition(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full sentence-to-playlist generation.
//
// The playlist is created only when at least one term matched. A run whose
// every term misses returns ErrNothingMatched alongside the outcomes so
// callers can still report per-word results.
func (e *PlaylistEngine) Run(ctx context.Context, sentence string, opts GenerateOptions, progress chan<- ProgressUpdate) (*GenerateResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrNotAuthenticated)
	}
	if !e.catalog.Authenticated() {
		return nil, fmt.Errorf("%w: run `saylist auth` first", shared.ErrNotAuthenticated)
	}

	result := &GenerateResult{Sentence: sentence, State: StateIdle}

	e.transition(StateTokenizing)
	e.sendProgress(progress, tokenizingUpdate())

	terms, err := TokenizeWith(sentence, e.synonyms)
	if err != nil {
		e.transition(StateErrored)
		result.State = StateErrored
		return result, err
	}
	result.Terms = terms
	e.sendProgress(progress, tokenizedUpdate(terms))

	e.transition(StateResolving)
	result.Outcomes = e.ResolveAll(ctx, terms, progress)
	result.State = StateResolving

	for _, outcome := range result.Outcomes {
		switch outcome.Kind {
		case models.Matched:
			result.MatchedCount++
		case models.NoMatch:
			result.NoMatchCount++
		case models.LookupFailed:
			result.FailedCount++
		}
	}
	if len(result.Outcomes) > 0 {
		result.MatchPercentage = float64(result.MatchedCount) / float64(len(result.Outcomes)) * 100
	}

	if result.MatchedCount == 0 {
		e.transition(StateErrored)
		result.State = StateErrored
		return result, fmt.Errorf("%w: no words matched a track", shared.ErrNothingMatched)
	}

	if opts.DryRun {
		e.transition(StateDone)
		result.State = StateDone
		return result, nil
	}

	e.transition(StateAssembling)
	result.State = StateAssembling

	title := opts.Title
	if title == "" {
		title = sentence
	}
	description := opts.Description
	if description == "" {
		description = "Playlist created with saylist: one song per word"
	}

	uris := make([]string, 0, result.MatchedCount)
	for _, outcome := range result.Outcomes {
		if outcome.Kind == models.Matched {
			uris = append(uris, outcome.Track.URI)
		}
	}

	handle, err := e.Assemble(ctx, models.PlaylistDraft{
		Name:        title,
		Description: description,
		Public:      opts.Public,
		TrackURIs:   uris,
	}, progress)
	result.Playlist = handle
	if err != nil {
		e.transition(StateErrored)
		result.State = StateErrored
		return result, err
	}

	e.transition(StateDone)
	result.State = StateDone
	e.sendProgress(progress, playlistCreatedUpdate(handle))
	return result, nil
}

// ResolveAll resolves terms in sequential chunks of the configured
// concurrency. Terms within a chunk resolve in parallel; each outcome is
// written to its term's index so output order always mirrors input order.
// Cancellation is observed between chunks: remaining terms are marked
// LookupFailed with the context's error.
func (e *PlaylistEngine) ResolveAll(ctx context.Context, terms []models.SearchTerm, progress chan<- ProgressUpdate) []models.ResolutionOutcome {
	outcomes := make([]models.ResolutionOutcome, len(terms))
	e.sendProgress(progress, resolvingUpdate(len(terms)))

	size := e.concurrency
	if size < 1 {
		size = 1
	}

	for start := 0; start < len(terms); start += size {
		if err := ctx.Err(); err != nil {
			for i := start; i < len(terms); i++ {
				outcomes[i] = models.ResolutionOutcome{
					Term: terms[i],
					Kind: models.LookupFailed,
					Err:  fmt.Errorf("%w: %w", shared.ErrTimeout, err),
				}
			}
			break
		}

		end := start + size
		if end > len(terms) {
			end = len(terms)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = e.resolveOne(ctx, terms[i])
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			e.sendProgress(progress, resolvedTermUpdate(i+1, len(terms), outcomes[i]))
		}
	}

	return outcomes
}

// resolveOne resolves a single term, consulting the cache first and writing
// back fresh matches. Pacing and the per-term timeout apply only to catalog
// resolution, not cache hits.
func (e *PlaylistEngine) resolveOne(ctx context.Context, term models.SearchTerm) models.ResolutionOutcome {
	if e.cache != nil {
		if track, err := e.cache.Get(ctx, term.Normalized); err == nil && track != nil {
			return FromCache(term, *track)
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return models.ResolutionOutcome{
				Term: term,
				Kind: models.LookupFailed,
				Err:  fmt.Errorf("%w: %w", shared.ErrTimeout, err),
			}
		}
	}

	resolveCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		resolveCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	outcome := e.resolver.Resolve(resolveCtx, term)

	if outcome.Kind == models.Matched && e.cache != nil {
		// Write-back failures are non-fatal; the match already succeeded.
		_ = e.cache.Put(ctx, term.Normalized, *outcome.Track)
	}

	return outcome
}

// Assemble creates a playlist for the current user and appends the draft's
// URIs in order, batched at the catalog's per-call cap.
//
// A failure while adding tracks still returns the created handle so callers
// can surface the partially filled playlist.
func (e *PlaylistEngine) Assemble(ctx context.Context, draft models.PlaylistDraft, progress chan<- ProgressUpdate) (*models.PlaylistHandle, error) {
	e.sendProgress(progress, assemblingUpdate(draft.Name, len(draft.TrackURIs)))

	ownerID := draft.OwnerID
	if ownerID == "" {
		user, err := e.catalog.CurrentUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrPlaylistCreate, err)
		}
		ownerID = user.ID
	}

	handle, err := e.catalog.CreatePlaylist(ctx, ownerID, draft.Name, draft.Description, draft.Public)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrPlaylistCreate, err)
	}

	for start := 0; start < len(draft.TrackURIs); start += 100 {
		end := start + 100
		if end > len(draft.TrackURIs) {
			end = len(draft.TrackURIs)
		}
		if err := e.catalog.AddTracks(ctx, handle.ID, draft.TrackURIs[start:end]); err != nil {
			return handle, fmt.Errorf("%w: %w", shared.ErrTrackAdd, err)
		}
	}

	return handle, nil
}
