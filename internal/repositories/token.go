package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/gigx/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRepository stores OAuth tokens keyed by service name.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save inserts or replaces the token for service.
//
// An empty refresh token keeps the stored one, since providers omit it on refresh.
func (r *TokenRepository) Save(service string, token *oauth2.Token) error {
	if service == "" {
		return fmt.Errorf("%w: service is required", shared.ErrInvalidInput)
	}
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: access token is required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO tokens (service, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN tokens.refresh_token ELSE excluded.refresh_token END,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		service,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		nullTime(token.Expiry),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Get returns the stored token for service or [shared.ErrNotFound].
func (r *TokenRepository) Get(service string) (*oauth2.Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, expiry
		FROM tokens
		WHERE service = ?
	`

	var (
		token  oauth2.Token
		expiry sql.NullTime
	)
	err := r.db.QueryRow(query, service).Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no token for %s", shared.ErrNotFound, service)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if expiry.Valid {
		token.Expiry = expiry.Time
	}
	return &token, nil
}

// Delete removes the token for service.
func (r *TokenRepository) Delete(service string) error {
	result, err := r.db.Exec("DELETE FROM tokens WHERE service = ?", service)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no token for %s", shared.ErrNotFound, service)
	}
	return nil
}

// DeleteAll removes every stored token and returns how many were removed.
func (r *TokenRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec("DELETE FROM tokens")
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}
	return result.RowsAffected()
}
