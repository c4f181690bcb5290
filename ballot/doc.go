// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot is the voting engine: polls, eligibility, the ballot ledger,
tallies and the poll lifecycle.

# Components

  - PollStore: creates, reads, lists and deletes polls with their options
  - Directory: users known to the identity provider
  - Guard: one eligibility token per (poll, user), enforced by a unique constraint
  - Ledger: append-only ballots, each bound to a token
  - VotingService: preconditions, then token and ballot in one transaction
  - TallyEngine: counts ballots per option at read time
  - Lifecycle: open → closed → published, and read gating

Engine wires them over one *sql.DB:

	engine := ballot.NewEngine(conn, ballot.Options{PurgeTokensOnClose: true})
	receipt, err := engine.CastVote(ctx, userID, pollID, optionID)

# Errors

Expected outcomes are returned as sentinel errors grouped into four kinds:

	ErrNotFound      ErrPollNotFound, ErrUserNotFound
	ErrInvalidInput  ErrInvalidOption, *ValidationError
	ErrConflict      ErrPollClosed, ErrAlreadyVoted, ErrAlreadyClosed, ErrNotClosed, ErrAlreadyPublished
	ErrForbidden     ErrResultsSealed

Match with errors.Is. Anything else is a storage failure.

# Casting

CastVote checks, in order, that the poll exists and is open, that the option
belongs to it, and that the user exists. Inside the transaction it re-checks
that the poll is open with a conditional update on the poll row, inserts the
eligibility token (a duplicate is ErrAlreadyVoted) and appends the ballot.
A close committed before the vote makes the vote fail with ErrPollClosed.

# Token Purge

With PurgeTokensOnClose set, closing a poll deletes its eligibility tokens.
Ballots survive, so results are unchanged, but HasVoted returns false for
everyone afterwards.
*/
package ballot
