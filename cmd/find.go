package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/gigx/internal/concerts"
	"github.com/desertthunder/gigx/internal/formatter"
	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/services"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/desertthunder/gigx/internal/tasks"
	"github.com/desertthunder/gigx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Find collects artists and travel periods, searches every provider and prints the concerts found.
//
// An interrupted search still prints and records the partial results, then returns an error wrapping
// [shared.ErrCancelled].
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	r.applyLogLevel(cmd, config)

	interactive := cmd.Bool("tui")
	if interactive {
		// Logs would corrupt the TUI, so they go to a file instead.
		fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		r.SetLogger(fileLogger)
		r.applyLogLevel(cmd, config)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	providers := r.providers
	if providers == nil {
		providers = concerts.FromConfig(config, r.logger)
	}
	if len(providers) == 0 {
		return fmt.Errorf("%w: enable at least one provider in %s (see 'gigx config check')", shared.ErrNoProviders, r.configPath)
	}

	if err := r.openStore(config); err != nil {
		return err
	}

	artists, err := r.collectArtists(ctx, config)
	if err != nil {
		return err
	}
	r.logger.Info("artists collected", "count", len(artists))

	periods, err := r.travelPeriods(ctx, config)
	if err != nil {
		return err
	}
	r.logger.Info("travel periods found", "count", len(periods))

	aggregator := concerts.NewAggregator(r.logger, providers...)
	finder := tasks.NewFinder(aggregator, r.logger)
	run := models.NewSearchRun(r.now(), len(artists), len(periods), aggregator.Names())

	var found []models.Concert
	if interactive {
		found, err = r.findInteractive(ctx, finder, artists, periods)
	} else {
		found, err = r.findWithProgress(ctx, cmd, finder, artists, periods)
	}

	cancelled := errors.Is(err, shared.ErrCancelled)
	if err != nil && !cancelled {
		return err
	}

	run.Finish(r.now(), found)
	if !cmd.Bool("no-history") {
		if saveErr := r.runs.Create(run); saveErr != nil {
			r.logger.Warn("failed to record search history", "error", saveErr)
		} else {
			r.logger.Debug("search recorded", "id", run.ID())
		}
	}

	if !interactive {
		if writeErr := r.writeConcerts(cmd, found); writeErr != nil {
			return writeErr
		}
	}
	return err
}

func (r *Runner) findWithProgress(ctx context.Context, cmd *cli.Command, finder *tasks.Finder, artists []models.Artist, periods []models.TravelPeriod) ([]models.Concert, error) {
	if cmd.Bool("quiet") || cmd.Bool("json") || cmd.Bool("csv") {
		return finder.Run(ctx, artists, periods, nil)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	bar := ui.NewProgressBar(r.errOutput)
	go func() {
		defer close(done)
		bar.Consume(progress)
	}()

	found, err := finder.Run(ctx, artists, periods, progress)
	close(progress)
	<-done
	return found, err
}

func (r *Runner) findInteractive(ctx context.Context, finder *tasks.Finder, artists []models.Artist, periods []models.TravelPeriod) ([]models.Concert, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(searchCtx, func(ctx context.Context, progress chan<- tasks.ProgressUpdate) ([]models.Concert, error) {
		return finder.Run(ctx, artists, periods, progress)
	})

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(r.input), tea.WithOutput(r.output), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	if !model.Finished() {
		return []models.Concert{}, fmt.Errorf("%w: closed before the search finished", shared.ErrCancelled)
	}
	return model.Concerts(), model.Err()
}

// collectArtists fetches followed and top artists, reauthorizing once if the stored token has expired.
func (r *Runner) collectArtists(ctx context.Context, config *shared.Config) ([]models.Artist, error) {
	if r.artists != nil {
		return services.CollectArtists(ctx, r.artists)
	}

	spotify, err := r.newSpotify(config)
	if err != nil {
		return nil, err
	}

	token, err := r.storedToken(ctx, config, spotify)
	if err != nil {
		return nil, err
	}
	spotify.SetTokenRefreshCallback(r.tokenSaver(spotify.Name()))
	if err := spotify.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	r.artists = spotify

	artists, err := services.CollectArtists(ctx, spotify)
	if err != nil {
		reauthed, authErr := r.handleAuthError(ctx, err, config, spotify)
		if !reauthed || authErr != nil {
			return nil, authErr
		}
		return services.CollectArtists(ctx, spotify)
	}
	return artists, nil
}

// travelPeriods lists calendar events within the lookahead window and keeps those away from home.
func (r *Runner) travelPeriods(ctx context.Context, config *shared.Config) ([]models.TravelPeriod, error) {
	calendar, err := r.calendarSource(ctx, config)
	if err != nil {
		return nil, err
	}

	from := r.now()
	events, err := calendar.Events(ctx, from, from.Add(config.Calendar.Lookahead()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s events: %w", calendar.Name(), err)
	}
	r.logger.Debug("calendar events fetched", "source", calendar.Name(), "count", len(events))

	return services.TravelPeriods(events, config.HomeLocation), nil
}

func (r *Runner) calendarSource(ctx context.Context, config *shared.Config) (services.CalendarSource, error) {
	if r.calendar != nil {
		return r.calendar, nil
	}

	switch config.Calendar.Source {
	case "ics":
		r.calendar = services.NewICSCalendar(config.Calendar.ICSURL, &http.Client{Timeout: config.HTTP.Timeout()})
	default:
		google, err := r.newGoogleOAuth(config)
		if err != nil {
			return nil, err
		}
		token, err := r.storedToken(ctx, config, google)
		if err != nil {
			return nil, err
		}
		client := google.Client(ctx, token, r.tokenSaver(google.Name()))
		calendar, err := services.NewGoogleCalendar(ctx, client, config.Calendar.CalendarID)
		if err != nil {
			return nil, err
		}
		r.calendar = calendar
	}
	return r.calendar, nil
}

// writeConcerts renders results as text, JSON or CSV, to the output or to --output.
func (r *Runner) writeConcerts(cmd *cli.Command, found []models.Concert) error {
	var data []byte
	var err error

	switch {
	case cmd.Bool("json"):
		data, err = shared.MarshalJSON(found, cmd.Bool("pretty"))
		data = append(data, '\n')
	case cmd.Bool("csv"):
		data, err = formatter.ExportToCSV(found)
	default:
		styles := formatter.DefaultStyles()
		if cmd.String("output") != "" {
			styles = formatter.PlainStyles()
		}
		data = formatter.ExportToText(found, styles)
	}
	if err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, data); err != nil {
			return err
		}
		return r.writePlain("✓ %d concerts written to %s\n", len(found), path)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
