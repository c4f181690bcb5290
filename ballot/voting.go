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

// VotingService casts votes: preconditions, then token and ballot written
// together in one transaction.
type VotingService struct {
	db     *sql.DB
	polls  *PollStore
	users  *Directory
	guard  *Guard
	ledger *Ledger
	clock  Clock
	logger *slog.Logger
}

func NewVotingService(db *sql.DB, polls *PollStore, users *Directory, guard *Guard, ledger *Ledger, clock Clock, logger *slog.Logger) *VotingService {
	return &VotingService{
		db:     db,
		polls:  polls,
		users:  users,
		guard:  guard,
		ledger: ledger,
		clock:  clock,
		logger: resolveLogger(logger),
	}
}

// CastVote records userID's vote for optionID. Checks run in order: poll
// exists and is open, option belongs to the poll, user exists, user has not
// voted. The receipt carries no tally information.
func (v *VotingService) CastVote(ctx context.Context, userID, pollID, optionID string) (models.Receipt, error) {
	poll, err := v.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Receipt{}, err
	}
	if !poll.IsOpen() {
		return models.Receipt{}, ErrPollClosed
	}
	if !poll.HasOption(optionID) {
		return models.Receipt{}, ErrInvalidOption
	}
	if _, err := v.users.Get(ctx, userID); err != nil {
		return models.Receipt{}, err
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Receipt{}, v.internal("begin vote", err, pollID, userID)
	}
	defer tx.Rollback()

	// Touch the poll row only while it is open. A close that commits first
	// leaves nothing to match; a close that comes later waits for this
	// transaction on the row lock.
	if err := lockOpenPoll(ctx, tx, pollID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return models.Receipt{}, err
		}
		return models.Receipt{}, v.internal("lock poll", err, pollID, userID)
	}

	castAt := now(v.clock)

	token, err := v.guard.Reserve(ctx, tx, pollID, userID, castAt)
	if errors.Is(err, ErrAlreadyVoted) {
		return models.Receipt{}, err
	}
	if err != nil {
		return models.Receipt{}, v.internal("reserve eligibility", err, pollID, userID)
	}

	ballotID, err := v.ledger.Append(ctx, tx, token, optionID, userID, castAt)
	if err != nil {
		return models.Receipt{}, v.internal("record ballot", err, pollID, userID)
	}

	if err := tx.Commit(); err != nil {
		return models.Receipt{}, v.internal("commit vote", err, pollID, userID)
	}

	v.logger.Info("vote cast", "poll_id", pollID, "user_id", userID, "ballot_id", ballotID)

	return models.Receipt{
		BallotID: ballotID,
		PollID:   pollID,
		CastAt:   castAt,
	}, nil
}

// HasVoted reports whether userID holds an eligibility token for the poll.
func (v *VotingService) HasVoted(ctx context.Context, userID, pollID string) (bool, error) {
	if _, err := v.polls.GetPoll(ctx, pollID); err != nil {
		return false, err
	}
	return v.guard.HasVoted(ctx, pollID, userID)
}

func (v *VotingService) internal(op string, err error, pollID, userID string) error {
	v.logger.Error("vote failed", "op", op, "poll_id", pollID, "user_id", userID, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// lockOpenPoll takes the poll row's write lock if the poll is still open.
func lockOpenPoll(ctx context.Context, tx *sql.Tx, pollID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE poll SET state = state
		WHERE id = $1 AND state = $2
	`, pollID, models.StateOpen)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if _, err := readState(ctx, tx, pollID); err != nil {
		return err
	}
	return ErrPollClosed
}
