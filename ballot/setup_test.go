// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/models"
)

// stepClock advances by one second on every reading, so each event gets a
// distinct timestamp.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	ctx    context.Context
	db     *sql.DB
	clock  *stepClock
	engine *Engine
}

func setup(t *testing.T, purgeTokens bool) *testEnv {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "ballot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(ctx, conn))

	clock := newStepClock()
	engine := NewEngine(conn, Options{
		PurgeTokensOnClose: purgeTokens,
		Clock:              clock,
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &testEnv{ctx: ctx, db: conn, clock: clock, engine: engine}
}

func (env *testEnv) user(t *testing.T, id string) models.User {
	t.Helper()
	u, _, err := env.engine.RegisterUser(env.ctx, id, "User "+id, id+"@council.example")
	require.NoError(t, err)
	return u
}

func (env *testEnv) poll(t *testing.T, title string, options ...string) models.Poll {
	t.Helper()
	p, err := env.engine.CreatePoll(env.ctx, title, options)
	require.NoError(t, err)
	return p
}

func optionID(t *testing.T, p models.Poll, text string) string {
	t.Helper()
	for _, o := range p.Options {
		if o.Text == text {
			return o.ID
		}
	}
	t.Fatalf("poll %s has no option %q", p.ID, text)
	return ""
}

func votesByText(res models.Results) map[string]int {
	out := make(map[string]int, len(res.Options))
	for _, o := range res.Options {
		out[o.Text] = o.Votes
	}
	return out
}
