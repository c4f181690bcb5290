// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/council-vote/models"
)

func TestClosePoll(t *testing.T) {
	env := setup(t, true)
	p := env.poll(t, "Closing", "A", "B")

	closed, err := env.engine.ClosePoll(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, closed.State)
	require.NotNil(t, closed.ClosedAt)
	assert.False(t, closed.ResultsPublished)

	got, err := env.engine.GetPoll(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, got.State)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, closed.ClosedAt.Equal(*got.ClosedAt))

	_, err = env.engine.ClosePoll(env.ctx, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.engine.ClosePoll(env.ctx, "missing")
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestClosePoll_Concurrent(t *testing.T) {
	env := setup(t, true)
	p := env.poll(t, "Close race", "A", "B")

	const n = 10
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.engine.ClosePoll(env.ctx, p.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyClosed):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(n-1), conflicts.Load())
}

func TestClosePoll_TokenPurge(t *testing.T) {
	for _, purge := range []bool{true, false} {
		name := "keep tokens"
		if purge {
			name = "purge tokens"
		}

		t.Run(name, func(t *testing.T) {
			env := setup(t, purge)
			env.user(t, "u1")
			p := env.poll(t, "Purge", "A", "B")

			_, err := env.engine.CastVote(env.ctx, "u1", p.ID, optionID(t, p, "A"))
			require.NoError(t, err)

			before, err := env.engine.GetResults(env.ctx, p.ID, true)
			require.NoError(t, err)

			_, err = env.engine.ClosePoll(env.ctx, p.ID)
			require.NoError(t, err)

			voted, err := env.engine.HasVoted(env.ctx, "u1", p.ID)
			require.NoError(t, err)
			assert.Equal(t, !purge, voted)

			// ballots survive either way
			after, err := env.engine.GetResults(env.ctx, p.ID, true)
			require.NoError(t, err)
			assert.Equal(t, votesByText(before), votesByText(after))

			participants, err := env.engine.GetParticipants(env.ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, participants.TotalVotes)
		})
	}
}

func TestCastVote_AfterCloseWithPurge(t *testing.T) {
	env := setup(t, true)
	env.user(t, "u1")
	env.user(t, "u2")
	p := env.poll(t, "Late", "A", "B")

	_, err := env.engine.CastVote(env.ctx, "u1", p.ID, optionID(t, p, "A"))
	require.NoError(t, err)
	_, err = env.engine.ClosePoll(env.ctx, p.ID)
	require.NoError(t, err)

	// the purged token does not let u1 vote again
	for _, user := range []string{"u1", "u2"} {
		_, err = env.engine.CastVote(env.ctx, user, p.ID, optionID(t, p, "B"))
		assert.ErrorIs(t, err, ErrPollClosed, user)
	}
}

func TestPublishResults(t *testing.T) {
	env := setup(t, true)
	p := env.poll(t, "Publish", "A", "B")

	_, err := env.engine.PublishResults(env.ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotClosed)

	_, err = env.engine.ClosePoll(env.ctx, p.ID)
	require.NoError(t, err)

	published, err := env.engine.PublishResults(env.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, published.ResultsPublished)
	require.NotNil(t, published.PublishedAt)

	_, err = env.engine.PublishResults(env.ctx, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	_, err = env.engine.PublishResults(env.ctx, "missing")
	assert.ErrorIs(t, err, ErrPollNotFound)

	got, err := env.engine.GetPoll(env.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.ResultsPublished)
	require.NotNil(t, got.PublishedAt)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, got.PublishedAt.After(*got.ClosedAt))
}

func TestGetResults_Gating(t *testing.T) {
	env := setup(t, true)
	env.user(t, "u1")
	p := env.poll(t, "Gated", "A", "B")
	_, err := env.engine.CastVote(env.ctx, "u1", p.ID, optionID(t, p, "A"))
	require.NoError(t, err)

	check := func(stage string, wantSealed bool) {
		_, err := env.engine.GetResults(env.ctx, p.ID, false)
		if wantSealed {
			assert.ErrorIs(t, err, ErrResultsSealed, stage)
			assert.ErrorIs(t, err, ErrForbidden, stage)
		} else {
			assert.NoError(t, err, stage)
		}

		_, err = env.engine.GetResults(env.ctx, p.ID, true)
		assert.NoError(t, err, stage)
	}

	check("open", true)

	_, err = env.engine.ClosePoll(env.ctx, p.ID)
	require.NoError(t, err)
	check("closed", true)

	_, err = env.engine.PublishResults(env.ctx, p.ID)
	require.NoError(t, err)
	check("published", false)

	_, err = env.engine.GetResults(env.ctx, "missing", false)
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestCanReadResults(t *testing.T) {
	open := models.Poll{State: models.StateOpen}
	closed := models.Poll{State: models.StateClosed}
	published := models.Poll{State: models.StateClosed, ResultsPublished: true}

	assert.ErrorIs(t, CanReadResults(open, false), ErrResultsSealed)
	assert.ErrorIs(t, CanReadResults(closed, false), ErrResultsSealed)
	assert.NoError(t, CanReadResults(published, false))

	for _, p := range []models.Poll{open, closed, published} {
		assert.NoError(t, CanReadResults(p, true))
	}
}
