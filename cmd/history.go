package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/gigx/internal/formatter"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyEntry is the JSON shape of a listed run.
type historyEntry struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	ArtistCount int       `json:"artist_count"`
	PeriodCount int       `json:"period_count"`
	Providers   []string  `json:"providers"`
	Concerts    int       `json:"concerts"`
}

// HistoryList lists recent search runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	runs, err := r.runs.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		count, err := r.runs.ConcertCount(run.ID())
		if err != nil {
			return err
		}
		entries = append(entries, historyEntry{
			ID:          run.ID(),
			StartedAt:   run.StartedAt(),
			FinishedAt:  run.FinishedAt(),
			ArtistCount: run.ArtistCount,
			PeriodCount: run.PeriodCount,
			Providers:   run.Providers,
			Concerts:    count,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No searches recorded yet.\n")
	}

	r.writePlain("Found %d searches:\n\n", len(entries))
	for i, e := range entries {
		r.writePlain("%d. %s\n", i+1, e.StartedAt.Local().Format(time.DateTime))
		r.writePlain("   ID: %s\n", e.ID)
		r.writePlain("   Artists: %d, travel periods: %d\n", e.ArtistCount, e.PeriodCount)
		r.writePlain("   Providers: %s\n", strings.Join(e.Providers, ", "))
		r.writePlain("   Concerts: %d\n", e.Concerts)
		r.writePlain("\n")
	}
	return nil
}

// HistoryShow prints the concerts stored for one run.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	run, err := r.runs.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(run.Concerts, cmd.Bool("pretty"))
	}

	r.writePlain("Search %s (%s)\n\n", run.ID(), run.StartedAt().Local().Format(time.DateTime))
	if _, err := r.output.Write(formatter.ExportToText(run.Concerts, formatter.DefaultStyles())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
