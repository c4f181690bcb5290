// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/models"
)

// Ledger is the append-only ballot record. Ballots are never updated and
// leave only with their poll.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Append records a ballot bound to token inside tx and returns its id.
func (l *Ledger) Append(ctx context.Context, tx *sql.Tx, token, optionID, userID string, castAt time.Time) (string, error) {
	ballotID, err := auth.GenerateID(16)
	if err != nil {
		return "", fmt.Errorf("generate ballot id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, token, option_id, user_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, token, optionID, userID, castAt)
	if err != nil {
		return "", fmt.Errorf("append ballot: %w", err)
	}

	return ballotID, nil
}

// Counts returns the number of ballots per option of the poll. Options
// without ballots are present with zero.
func (l *Ledger) Counts(ctx context.Context, pollID string) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT o.id, COUNT(b.id)
		FROM poll_option o
		LEFT JOIN ballot b ON b.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("count ballots: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			optionID string
			n        int
		)
		if err := rows.Scan(&optionID, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[optionID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count ballots: %w", err)
	}

	return counts, nil
}

// Voters lists who cast a ballot in the poll, unordered.
func (l *Ledger) Voters(ctx context.Context, pollID string) ([]models.Participant, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, u.contact_handle, b.cast_at
		FROM ballot b
		JOIN poll_option o ON o.id = b.option_id
		JOIN app_user u ON u.id = b.user_id
		WHERE o.poll_id = $1
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.ContactHandle, &p.CastAt); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		p.CastAt = p.CastAt.UTC()
		voters = append(voters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}

	return voters, nil
}
