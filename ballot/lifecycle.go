// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/council-vote/models"
)

// Lifecycle drives a poll from open to closed to published and gates who
// may read results. Transitions are conditional updates, so concurrent
// attempts produce exactly one success.
type Lifecycle struct {
	db          *sql.DB
	polls       *PollStore
	guard       *Guard
	purgeTokens bool
	clock       Clock
	logger      *slog.Logger
}

func NewLifecycle(db *sql.DB, polls *PollStore, guard *Guard, purgeTokens bool, clock Clock, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		db:          db,
		polls:       polls,
		guard:       guard,
		purgeTokens: purgeTokens,
		clock:       clock,
		logger:      resolveLogger(logger),
	}
}

// Close stops voting on an open poll. With token purging enabled the poll's
// eligibility tokens are deleted in the same transaction; ballots are kept.
func (l *Lifecycle) Close(ctx context.Context, pollID string) (models.Poll, error) {
	poll, err := l.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if !poll.IsOpen() {
		return models.Poll{}, ErrAlreadyClosed
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("begin close: %w", err)
	}
	defer tx.Rollback()

	closedAt := now(l.clock)
	res, err := tx.ExecContext(ctx, `
		UPDATE poll SET state = $1, closed_at = $2
		WHERE id = $3 AND state = $4
	`, models.StateClosed, closedAt, pollID, models.StateOpen)
	if err != nil {
		return models.Poll{}, fmt.Errorf("close poll: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Poll{}, fmt.Errorf("close poll: %w", err)
	} else if n == 0 {
		if _, err := readState(ctx, tx, pollID); err != nil {
			return models.Poll{}, err
		}
		return models.Poll{}, ErrAlreadyClosed
	}

	var purged int64
	if l.purgeTokens {
		purged, err = l.guard.Purge(ctx, tx, pollID)
		if err != nil {
			return models.Poll{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("commit close: %w", err)
	}

	l.logger.Info("poll closed", "poll_id", pollID, "tokens_purged", purged)

	poll.State = models.StateClosed
	poll.ClosedAt = &closedAt
	return poll, nil
}

// Publish releases the results of a closed poll to everyone.
func (l *Lifecycle) Publish(ctx context.Context, pollID string) (models.Poll, error) {
	poll, err := l.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if poll.IsOpen() {
		return models.Poll{}, ErrNotClosed
	}
	if poll.ResultsPublished {
		return models.Poll{}, ErrAlreadyPublished
	}

	publishedAt := now(l.clock)
	res, err := l.db.ExecContext(ctx, `
		UPDATE poll SET results_published = $1, published_at = $2
		WHERE id = $3 AND state = $4 AND results_published = $5
	`, true, publishedAt, pollID, models.StateClosed, false)
	if err != nil {
		return models.Poll{}, fmt.Errorf("publish poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, fmt.Errorf("publish poll: %w", err)
	}
	if n == 0 {
		// lost a race with another publish or a delete
		if _, err := l.polls.GetPoll(ctx, pollID); err != nil {
			return models.Poll{}, err
		}
		return models.Poll{}, ErrAlreadyPublished
	}

	l.logger.Info("results published", "poll_id", pollID)

	poll.ResultsPublished = true
	poll.PublishedAt = &publishedAt
	return poll, nil
}

// CanReadResults reports whether a caller may see the poll's tallies.
// Privileged callers always may; everyone else only after publication.
func CanReadResults(poll models.Poll, privileged bool) error {
	if privileged {
		return nil
	}
	if poll.IsOpen() || !poll.ResultsPublished {
		return ErrResultsSealed
	}
	return nil
}

// readState returns the poll's state as seen by tx, or ErrPollNotFound.
func readState(ctx context.Context, tx *sql.Tx, pollID string) (string, error) {
	var state string
	err := tx.QueryRowContext(ctx, `SELECT state FROM poll WHERE id = $1`, pollID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPollNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read poll state: %w", err)
	}
	return state, nil
}
