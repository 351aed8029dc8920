package main

import (
	"context"

	"github.com/desertthunder/gigx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Clean removes stored OAuth tokens and search history after confirmation.
//
// --force skips the prompt.
func (r *Runner) Clean(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	keepHistory := cmd.Bool("tokens-only")

	if !cmd.Bool("force") {
		detail := "Stored Spotify and Google tokens will be removed.\nYou'll need to re-authenticate on the next run."
		if !keepHistory {
			detail += "\nSearch history will be removed too."
		}

		ok, err := ui.Confirm(ctx, r.input, r.output, "Remove all cached credentials?", detail)
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cleanup cancelled.\n")
		}
	}

	tokens, err := r.tokens.DeleteAll()
	if err != nil {
		return err
	}
	r.logger.Info("tokens removed", "count", tokens)

	var runs int64
	if !keepHistory {
		if runs, err = r.runs.DeleteAll(); err != nil {
			return err
		}
		r.logger.Info("search history removed", "count", runs)
	}

	if tokens == 0 && runs == 0 {
		return r.writePlain("No cached data needed to be cleaned up.\n")
	}

	r.writePlain("✓ Removed %d tokens and %d search runs\n", tokens, runs)
	return r.writePlain("Cleanup complete! You'll need to re-authenticate when you next run gigx.\n")
}
