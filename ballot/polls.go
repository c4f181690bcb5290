// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/models"
)

const pollColumns = `id, title, state, results_published, created_at, closed_at, published_at`

// PollStore persists polls and their options.
type PollStore struct {
	db     *sql.DB
	clock  Clock
	logger *slog.Logger
}

func NewPollStore(db *sql.DB, clock Clock, logger *slog.Logger) *PollStore {
	return &PollStore{db: db, clock: clock, logger: resolveLogger(logger)}
}

// CreatePoll validates the request and inserts the poll with its options in
// one transaction. The poll starts open.
func (s *PollStore) CreatePoll(ctx context.Context, title string, optionTexts []string) (models.Poll, error) {
	title, texts, err := ValidatePoll(title, optionTexts)
	if err != nil {
		return models.Poll{}, err
	}

	pollID, err := auth.GenerateID(16)
	if err != nil {
		return models.Poll{}, fmt.Errorf("generate poll id: %w", err)
	}

	poll := models.Poll{
		ID:        pollID,
		Title:     title,
		State:     models.StateOpen,
		CreatedAt: now(s.clock),
		Options:   make([]models.Option, 0, len(texts)),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("begin create poll: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, title, state, results_published, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, poll.ID, poll.Title, poll.State, false, poll.CreatedAt)
	if err != nil {
		return models.Poll{}, fmt.Errorf("insert poll: %w", err)
	}

	for i, text := range texts {
		optionID, err := auth.GenerateID(12)
		if err != nil {
			return models.Poll{}, fmt.Errorf("generate option id: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (id, poll_id, position, text)
			VALUES ($1, $2, $3, $4)
		`, optionID, poll.ID, i, text)
		if err != nil {
			return models.Poll{}, fmt.Errorf("insert option: %w", err)
		}

		poll.Options = append(poll.Options, models.Option{
			ID:       optionID,
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		})
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("commit create poll: %w", err)
	}

	s.logger.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))
	return poll, nil
}

// GetPoll returns the poll with its options in position order.
func (s *PollStore) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM poll WHERE id = $1`, pollID)
	poll, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrPollNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("get poll: %w", err)
	}

	options, err := s.loadOptions(ctx, `WHERE poll_id = $1`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	poll.Options = options[poll.ID]
	if poll.Options == nil {
		poll.Options = []models.Option{}
	}

	return poll, nil
}

// ListPolls returns every poll with its options, in SortPolls order.
func (s *PollStore) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pollColumns+` FROM poll`)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}

	polls := []models.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}

	options, err := s.loadOptions(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range polls {
		polls[i].Options = options[polls[i].ID]
		if polls[i].Options == nil {
			polls[i].Options = []models.Option{}
		}
	}

	SortPolls(polls)
	return polls, nil
}

// DeletePoll removes a poll. Options, eligibility tokens and ballots go with it.
func (s *PollStore) DeletePoll(ctx context.Context, pollID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if n == 0 {
		return ErrPollNotFound
	}

	s.logger.Info("poll deleted", "poll_id", pollID)
	return nil
}

// loadOptions reads options matching where, grouped by poll id.
func (s *PollStore) loadOptions(ctx context.Context, where string, args ...any) (map[string][]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, position, text
		FROM poll_option `+where+`
		ORDER BY poll_id, position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	byPoll := make(map[string][]models.Option)
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Position, &o.Text); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		byPoll[o.PollID] = append(byPoll[o.PollID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}

	return byPoll, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var (
		p           models.Poll
		closedAt    sql.NullTime
		publishedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Title, &p.State, &p.ResultsPublished, &p.CreatedAt, &closedAt, &publishedAt); err != nil {
		return models.Poll{}, err
	}

	p.CreatedAt = p.CreatedAt.UTC()
	p.ClosedAt = utcPtr(closedAt)
	p.PublishedAt = utcPtr(publishedAt)
	return p, nil
}

func utcPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
