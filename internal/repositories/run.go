package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/gigx/internal/models"
	"github.com/desertthunder/gigx/internal/shared"
)

// RunRepository persists completed sweeps and their concerts.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts run and its concerts with a generated ID.
func (r *RunRepository) Create(run *models.SearchRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	err := withTx(r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO search_runs (
				id, started_at, finished_at, artist_count, period_count, providers, created_at, updated_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query,
			id,
			run.StartedAt(),
			nullTime(run.FinishedAt()),
			run.ArtistCount,
			run.PeriodCount,
			strings.Join(run.Providers, ","),
			run.CreatedAt(),
			run.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert search run: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO search_run_concerts (
				run_id, position, artist, source, venue, location, date, tickets_url, lowest_price, highest_price
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare concert insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range run.Concerts {
			_, err := stmt.Exec(id, i, c.Artist, c.Source, c.Venue, c.Location, c.Date, c.TicketsURL,
				nullPrice(c.LowestPrice), nullPrice(c.HighestPrice))
			if err != nil {
				return fmt.Errorf("failed to insert concert %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	run.SetID(id)
	return nil
}

// Get retrieves a run by ID with its concerts in result order.
func (r *RunRepository) Get(id string) (*models.SearchRun, error) {
	query := `
		SELECT id, started_at, finished_at, artist_count, period_count, providers, created_at, updated_at
		FROM search_runs
		WHERE id = ?
	`

	run, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: search run %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	concerts, err := r.concerts(id)
	if err != nil {
		return nil, err
	}
	run.Concerts = concerts
	return run, nil
}

// List returns the most recent runs first, without their concerts. A limit of zero or less means no limit.
func (r *RunRepository) List(limit int) ([]*models.SearchRun, error) {
	query := `
		SELECT id, started_at, finished_at, artist_count, period_count, providers, created_at, updated_at
		FROM search_runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.SearchRun{}
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// ConcertCount returns how many concerts were stored for run id.
func (r *RunRepository) ConcertCount(id string) (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM search_run_concerts WHERE run_id = ?", id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count concerts: %w", err)
	}
	return n, nil
}

// DeleteAll removes every run and its concerts and returns how many runs were removed.
func (r *RunRepository) DeleteAll() (int64, error) {
	var deleted int64
	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM search_run_concerts"); err != nil {
			return fmt.Errorf("failed to delete concerts: %w", err)
		}
		result, err := tx.Exec("DELETE FROM search_runs")
		if err != nil {
			return fmt.Errorf("failed to delete search runs: %w", err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	return deleted, err
}

func (r *RunRepository) concerts(runID string) ([]models.Concert, error) {
	query := `
		SELECT artist, source, venue, location, date, tickets_url, lowest_price, highest_price
		FROM search_run_concerts
		WHERE run_id = ?
		ORDER BY position
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query concerts: %w", err)
	}
	defer rows.Close()

	concerts := []models.Concert{}
	for rows.Next() {
		var (
			c         models.Concert
			low, high sql.NullFloat64
		)
		if err := rows.Scan(&c.Artist, &c.Source, &c.Venue, &c.Location, &c.Date, &c.TicketsURL, &low, &high); err != nil {
			return nil, fmt.Errorf("failed to scan concert: %w", err)
		}
		c.LowestPrice = priceFromNull(low)
		c.HighestPrice = priceFromNull(high)
		concerts = append(concerts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return concerts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scan(row scanner) (*models.SearchRun, error) {
	var (
		id                       string
		startedAt                time.Time
		finishedAt               sql.NullTime
		artistCount, periodCount int
		providers                string
		createdAt, updatedAt     time.Time
	)

	err := row.Scan(&id, &startedAt, &finishedAt, &artistCount, &periodCount, &providers, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan search run: %w", err)
	}

	var providerList []string
	if providers != "" {
		providerList = strings.Split(providers, ",")
	}

	return models.RestoreSearchRun(id, startedAt, finishedAt.Time, createdAt, updatedAt, artistCount, periodCount, providerList), nil
}
