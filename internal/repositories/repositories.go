// package repositories provides persistence layer implementations for tokens and search runs.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/gigx/internal/models"
)

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullPrice(p models.Price) any {
	if !p.Available() {
		return nil
	}
	return p.Amount()
}

func priceFromNull(n sql.NullFloat64) models.Price {
	if !n.Valid {
		return models.Price{}
	}
	return models.PriceOf(n.Float64)
}
