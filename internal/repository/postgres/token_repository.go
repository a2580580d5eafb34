// Package postgres provides the durable token repository. Sessions survive
// gateway restarts; expired rows are swept by a background task.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skillbridge-web/internal/domain"
)

type TokenRepository struct {
	db                *sql.DB
	saveStmt          *sql.Stmt
	getStmt           *sql.Stmt
	deleteStmt        *sql.Stmt
	deleteExpiredStmt *sql.Stmt
}

// NewTokenRepository creates a TokenRepository with prepared statements.
// Returns an error if statement preparation fails.
func NewTokenRepository(db *sql.DB) (*TokenRepository, error) {
	repo := &TokenRepository{db: db}

	var err error
	repo.saveStmt, err = db.Prepare(`
		INSERT INTO session_tokens (token, issued_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET issued_at = $2, expires_at = $3
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare save statement: %w", err)
	}

	repo.getStmt, err = db.Prepare(`
		SELECT token, issued_at, expires_at
		FROM session_tokens
		WHERE token = $1 AND expires_at > $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare get statement: %w", err)
	}

	repo.deleteStmt, err = db.Prepare(`DELETE FROM session_tokens WHERE token = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	repo.deleteExpiredStmt, err = db.Prepare(`DELETE FROM session_tokens WHERE expires_at <= $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare deleteExpired statement: %w", err)
	}

	return repo, nil
}

// Save inserts a token record, refreshing the deadline when the backend
// hands out the same token twice.
func (r *TokenRepository) Save(ctx context.Context, record *domain.TokenRecord) error {
	_, err := r.saveStmt.ExecContext(ctx,
		record.Token,
		record.IssuedAt,
		record.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, token string) (*domain.TokenRecord, error) {
	record := &domain.TokenRecord{}
	err := r.getStmt.QueryRowContext(ctx, token, time.Now()).Scan(
		&record.Token,
		&record.IssuedAt,
		&record.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session token: %w", err)
	}
	return record, nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.deleteStmt.ExecContext(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.deleteExpiredStmt.ExecContext(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session tokens: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}
