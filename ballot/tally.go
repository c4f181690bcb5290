// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"slices"
	"strings"

	"github.com/danielhkuo/council-vote/models"
)

// TallyEngine computes results from the ledger on every call. Nothing is
// cached or pre-aggregated.
type TallyEngine struct {
	polls  *PollStore
	ledger *Ledger
}

func NewTallyEngine(polls *PollStore, ledger *Ledger) *TallyEngine {
	return &TallyEngine{polls: polls, ledger: ledger}
}

func (t *TallyEngine) ComputeResults(ctx context.Context, pollID string) (models.Results, error) {
	poll, err := t.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Results{}, err
	}
	return t.resultsFor(ctx, poll)
}

func (t *TallyEngine) resultsFor(ctx context.Context, poll models.Poll) (models.Results, error) {
	counts, err := t.ledger.Counts(ctx, poll.ID)
	if err != nil {
		return models.Results{}, err
	}
	return Tally(poll, counts), nil
}

// Tally builds results from per-option counts. Options are ordered by votes
// (descending) then position. Every option sharing the maximum is a winner;
// with no ballots there are none.
func Tally(poll models.Poll, counts map[string]int) models.Results {
	res := models.Results{
		Poll:    poll.Summary(),
		Options: make([]models.OptionTally, 0, len(poll.Options)),
		Winners: []models.OptionTally{},
	}

	for _, o := range poll.Options {
		n := counts[o.ID]
		res.Options = append(res.Options, models.OptionTally{
			OptionID: o.ID,
			Text:     o.Text,
			Position: o.Position,
			Votes:    n,
		})
		res.TotalVotes += n
	}

	slices.SortStableFunc(res.Options, func(a, b models.OptionTally) int {
		if a.Votes != b.Votes {
			return b.Votes - a.Votes
		}
		return a.Position - b.Position
	})

	if res.TotalVotes == 0 {
		return res
	}

	top := res.Options[0].Votes
	for _, o := range res.Options {
		if o.Votes != top {
			break
		}
		res.Winners = append(res.Winners, o)
	}
	res.Tie = len(res.Winners) > 1

	return res
}

func (t *TallyEngine) ComputeParticipants(ctx context.Context, pollID string) (models.Participants, error) {
	poll, err := t.polls.GetPoll(ctx, pollID)
	if err != nil {
		return models.Participants{}, err
	}

	voters, err := t.ledger.Voters(ctx, pollID)
	if err != nil {
		return models.Participants{}, err
	}

	SortParticipants(voters)

	return models.Participants{
		Poll:         poll.Summary(),
		TotalVotes:   len(voters),
		Participants: voters,
	}, nil
}

// SortParticipants orders by cast time, newest first, then user id.
func SortParticipants(ps []models.Participant) {
	slices.SortStableFunc(ps, func(a, b models.Participant) int {
		if c := b.CastAt.Compare(a.CastAt); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
}
