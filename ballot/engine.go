// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/danielhkuo/council-vote/models"
)

type Options struct {
	// PurgeTokensOnClose deletes eligibility tokens when a poll closes.
	PurgeTokensOnClose bool

	Clock  Clock
	Logger *slog.Logger
}

// Engine wires the components over one database and exposes the operations
// the transport calls. Privilege is checked by the caller except for
// GetResults, which gates on its own.
type Engine struct {
	polls     *PollStore
	users     *Directory
	voting    *VotingService
	tally     *TallyEngine
	lifecycle *Lifecycle
}

func NewEngine(db *sql.DB, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	logger := resolveLogger(opts.Logger)

	polls := NewPollStore(db, clock, logger)
	users := NewDirectory(db, clock, logger)
	guard := NewGuard(db)
	ledger := NewLedger(db)

	return &Engine{
		polls:     polls,
		users:     users,
		voting:    NewVotingService(db, polls, users, guard, ledger, clock, logger),
		tally:     NewTallyEngine(polls, ledger),
		lifecycle: NewLifecycle(db, polls, guard, opts.PurgeTokensOnClose, clock, logger),
	}
}

func (e *Engine) CreatePoll(ctx context.Context, title string, options []string) (models.Poll, error) {
	return e.polls.CreatePoll(ctx, title, options)
}

func (e *Engine) ListPolls(ctx context.Context) ([]models.Poll, error) {
	return e.polls.ListPolls(ctx)
}

func (e *Engine) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	return e.polls.GetPoll(ctx, pollID)
}

func (e *Engine) DeletePoll(ctx context.Context, pollID string) error {
	return e.polls.DeletePoll(ctx, pollID)
}

func (e *Engine) CastVote(ctx context.Context, userID, pollID, optionID string) (models.Receipt, error) {
	return e.voting.CastVote(ctx, userID, pollID, optionID)
}

func (e *Engine) HasVoted(ctx context.Context, userID, pollID string) (bool, error) {
	return e.voting.HasVoted(ctx, userID, pollID)
}

func (e *Engine) ClosePoll(ctx context.Context, pollID string) (models.Poll, error) {
	return e.lifecycle.Close(ctx, pollID)
}

func (e *Engine) PublishResults(ctx context.Context, pollID string) (models.Poll, error) {
	return e.lifecycle.Publish(ctx, pollID)
}

// GetResults returns the tally. Non-privileged callers get ErrResultsSealed
// until the poll is closed and published.
func (e *Engine) GetResults(ctx context.Context, pollID string, privileged bool) (models.Results, error) {
	poll, err := e.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Results{}, err
	}
	if err := CanReadResults(poll, privileged); err != nil {
		return models.Results{}, err
	}
	return e.tally.resultsFor(ctx, poll)
}

func (e *Engine) GetParticipants(ctx context.Context, pollID string) (models.Participants, error) {
	return e.tally.ComputeParticipants(ctx, pollID)
}

func (e *Engine) RegisterUser(ctx context.Context, userID, displayName, contactHandle string) (models.User, bool, error) {
	return e.users.Register(ctx, userID, displayName, contactHandle)
}

// GetUser returns the user's profile and records the visit.
func (e *Engine) GetUser(ctx context.Context, userID string) (models.User, error) {
	if err := e.users.Touch(ctx, userID); err != nil {
		return models.User{}, err
	}
	return e.users.Get(ctx, userID)
}
