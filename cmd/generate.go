package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmckenna/saylist/internal/formatter"
	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/repositories"
	"github.com/bmckenna/saylist/internal/shared"
	"github.com/bmckenna/saylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate resolves every word of a sentence and assembles the playlist.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	sentence := cmd.StringArg("sentence")
	if strings.TrimSpace(sentence) == "" {
		return fmt.Errorf("%w: a sentence argument is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: configure Spotify credentials and run `saylist auth`", shared.ErrNotAuthenticated)
	}

	opts := tasks.GenerateOptions{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Public:      cmd.Bool("public") || r.config.Generator.Public,
		DryRun:      cmd.Bool("dry-run"),
	}

	engine := r.buildEngine(cmd.Int("concurrency"), cmd.Float("rate"))

	r.logger.Info("generating playlist", "sentence", sentence, "dry_run", opts.DryRun)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Run(ctx, sentence, opts, progress)
	close(progress)
	<-done

	if err != nil {
		if result != nil && len(result.Outcomes) > 0 {
			r.printOutcomes(result.Outcomes)
		}
		// Adding tracks can fail after the playlist exists; the user
		// should still get the link.
		if result != nil && result.Playlist != nil {
			r.writePlain("⚠ Playlist created but not all tracks were added: %s\n", result.Playlist.ExternalURL)
		}
		if retried, authErr := r.handleAuthError(ctx, err, cmd); retried {
			if authErr != nil {
				return authErr
			}
			return r.Generate(ctx, cmd)
		}
		return err
	}

	r.recordHistory(sentence, result)

	if output := cmd.String("output"); output != "" {
		if err := r.saveResult(output, result); err != nil {
			return err
		}
		r.writePlain("✓ Result written to %s\n", output)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.printOutcomes(result.Outcomes)
	r.writePlain("\nMatched %d of %d words (%.0f%%)\n", result.MatchedCount, len(result.Outcomes), result.MatchPercentage)

	if result.Playlist != nil {
		r.writePlain("✓ Playlist created: %s\n", result.Playlist.ExternalURL)
	} else if opts.DryRun {
		r.writePlain("Dry run: no playlist created.\n")
	}

	return nil
}

// Resolve resolves each word without creating a playlist.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	sentence := cmd.StringArg("sentence")
	if strings.TrimSpace(sentence) == "" {
		return fmt.Errorf("%w: a sentence argument is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: configure Spotify credentials and run `saylist auth`", shared.ErrNotAuthenticated)
	}

	engine := r.buildEngine(cmd.Int("concurrency"), 0)

	result, err := engine.Run(ctx, sentence, tasks.GenerateOptions{DryRun: true}, nil)
	if err != nil && result == nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Outcomes, cmd.Bool("pretty"))
	}

	r.printOutcomes(result.Outcomes)
	r.writePlain("\nMatched %d of %d words\n", result.MatchedCount, len(result.Outcomes))
	return nil
}

func (r *Runner) printOutcomes(outcomes []models.ResolutionOutcome) {
	for i, outcome := range outcomes {
		switch outcome.Kind {
		case models.Matched:
			artists := strings.Join(outcome.Track.Artists, ", ")
			marker := "≈"
			if outcome.Exact {
				marker = "✓"
			}
			r.writePlain("%d. %s %s → %s - %s\n", i+1, marker, outcome.Term.Raw, artists, outcome.Track.Title)
		case models.NoMatch:
			r.writePlain("%d. ✗ %s → no match\n", i+1, outcome.Term.Raw)
		default:
			r.writePlain("%d. ! %s → lookup failed\n", i+1, outcome.Term.Raw)
		}
	}
}

// recordHistory persists a playlist record for the history command. Failures
// are logged, never fatal.
func (r *Runner) recordHistory(sentence string, result *tasks.GenerateResult) {
	if result.Playlist == nil {
		return
	}

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		return
	}

	userID := ""
	if user, err := r.catalog.CurrentUser(context.Background()); err == nil {
		userID = user.ID
	}

	name := result.Sentence
	record := models.NewPlaylistRecord(
		result.Playlist.ID,
		userID,
		name,
		"",
		sentence,
		len(result.Outcomes),
		result.MatchedCount,
		r.config.Generator.Public,
		result.Playlist.ExternalURL,
	)

	if err := repositories.NewPlaylistRepository(db).Create(record); err != nil {
		r.logger.Warn("failed to record playlist history", "error", err)
	}
}

// saveResult writes the result to path, picking the format from the extension.
func (r *Runner) saveResult(path string, result *tasks.GenerateResult) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = formatter.OutcomesToCSV(result.Outcomes)
	case ".md", ".markdown":
		data, err = formatter.ResultToMarkdown(result)
	case ".json":
		data, err = shared.MarshalJSON(result, true)
	default:
		data, err = formatter.ResultToText(result)
	}
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	return formatter.WriteFile(path, data)
}

// History lists previously generated playlists, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}

	records, err := repositories.NewPlaylistRepository(db).List(map[string]any{
		"limit": cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]map[string]any, len(records))
		for i, record := range records {
			summaries[i] = map[string]any{
				"name":          record.Name(),
				"sentence":      record.Sentence(),
				"track_count":   record.TrackCount(),
				"matched_count": record.MatchedCount(),
				"public":        record.Public(),
				"url":           record.URL(),
				"created_at":    record.CreatedAt(),
			}
		}
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.HistoryToText(records))
}

// CacheStats shows entry and hit counts for the track cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}

	stats, err := repositories.NewTrackCacheRepository(db).Stats()
	if err != nil {
		return err
	}

	r.writePlain("Cached words: %d\n", stats.Entries)
	r.writePlain("Cache hits: %d\n", stats.TotalHits)
	return nil
}

// CacheClear soft-deletes every cached track.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}

	cleared, err := repositories.NewTrackCacheRepository(db).Clear()
	if err != nil {
		return err
	}

	r.writePlain("✓ Cleared %d cached tracks\n", cleared)
	return nil
}
