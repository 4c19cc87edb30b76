package tasks

import (
	"fmt"

	"github.com/bmckenna/saylist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Tokenizing Phase = iota
	Resolving
	Assembling
	Completed
)

func (p Phase) String() string {
	switch p {
	case Tokenizing:
		return "tokenizing"
	case Resolving:
		return "resolving"
	case Assembling:
		return "assembling"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

func tokenizingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Tokenizing,
		Step:    1,
		Total:   1,
		Message: "Splitting sentence into search terms...",
	}
}

func tokenizedUpdate(terms []models.SearchTerm) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Tokenizing,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d words to match", len(terms)),
		Data:    terms,
	}
}

func resolvingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolving,
		Step:    0,
		Total:   total,
		Message: "Searching the catalog for each word...",
	}
}

func resolvedTermUpdate(step, total int, outcome models.ResolutionOutcome) ProgressUpdate {
	var message string
	switch outcome.Kind {
	case models.Matched:
		message = fmt.Sprintf("[%d/%d] %s → %s", step, total, outcome.Term.Raw, outcome.Track.Title)
	case models.NoMatch:
		message = fmt.Sprintf("[%d/%d] %s → no match", step, total, outcome.Term.Raw)
	default:
		message = fmt.Sprintf("[%d/%d] %s → lookup failed", step, total, outcome.Term.Raw)
	}
	return ProgressUpdate{
		Phase:   Resolving,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    outcome,
	}
}

func assemblingUpdate(name string, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Assembling,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q with %d tracks...", name, trackCount),
	}
}

func playlistCreatedUpdate(handle *models.PlaylistHandle) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Completed,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s", handle.ExternalURL),
		Data:    handle,
	}
}
