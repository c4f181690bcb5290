// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/db"
)

// Guard enforces at most one eligibility token per (poll, user). The
// UNIQUE (poll_id, user_id) constraint is the serialization point; there is
// no read-before-write.
type Guard struct {
	db *sql.DB
}

func NewGuard(db *sql.DB) *Guard {
	return &Guard{db: db}
}

// Reserve mints a token for the user inside tx. A second reservation for the
// same poll and user fails with ErrAlreadyVoted, including under races.
func (g *Guard) Reserve(ctx context.Context, tx *sql.Tx, pollID, userID string, issuedAt time.Time) (string, error) {
	id, err := auth.GenerateID(16)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	token, err := auth.NewBallotToken()
	if err != nil {
		return "", fmt.Errorf("mint ballot token: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO eligibility_token (id, poll_id, user_id, token, issued_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, pollID, userID, token, issuedAt)
	if db.IsUniqueViolation(err) {
		return "", ErrAlreadyVoted
	}
	if err != nil {
		return "", fmt.Errorf("reserve eligibility: %w", err)
	}

	return token, nil
}

// HasVoted reports whether a token exists for the user in the poll. Once
// tokens are purged on close this is false for everyone.
func (g *Guard) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	var n int
	err := g.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM eligibility_token
		WHERE poll_id = $1 AND user_id = $2
	`, pollID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check eligibility: %w", err)
	}
	return n > 0, nil
}

// Purge deletes every token of the poll inside tx.
func (g *Guard) Purge(ctx context.Context, tx *sql.Tx, pollID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM eligibility_token WHERE poll_id = $1`, pollID)
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return res.RowsAffected()
}
