// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/models"
)

const (
	maxDisplayNameLength   = 100
	maxContactHandleLength = 200
)

// Directory is the local copy of users known to the identity provider.
// Voting only reads it; Register lets a user publish their profile.
type Directory struct {
	db     *sql.DB
	clock  Clock
	logger *slog.Logger
}

func NewDirectory(db *sql.DB, clock Clock, logger *slog.Logger) *Directory {
	return &Directory{db: db, clock: clock, logger: resolveLogger(logger)}
}

// Register creates or refreshes the user's profile. The bool reports whether
// the user was new.
func (d *Directory) Register(ctx context.Context, userID, displayName, contactHandle string) (models.User, bool, error) {
	displayName = strings.TrimSpace(displayName)
	contactHandle = strings.TrimSpace(contactHandle)

	var problems []string
	if strings.TrimSpace(userID) == "" {
		problems = append(problems, "user id is required")
	}
	if displayName == "" {
		problems = append(problems, "display_name is required")
	} else if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		problems = append(problems, fmt.Sprintf("display_name must be at most %d characters", maxDisplayNameLength))
	}
	if utf8.RuneCountInString(contactHandle) > maxContactHandleLength {
		problems = append(problems, fmt.Sprintf("contact_handle must be at most %d characters", maxContactHandleLength))
	}
	if len(problems) > 0 {
		return models.User{}, false, &ValidationError{Problems: problems}
	}

	ts := now(d.clock)

	updated, err := d.update(ctx, userID, displayName, contactHandle)
	if err != nil {
		return models.User{}, false, err
	}

	isNew := false
	if !updated {
		_, err = d.db.ExecContext(ctx, `
			INSERT INTO app_user (id, display_name, contact_handle, created_at, last_seen_at)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, displayName, contactHandle, ts, ts)

		switch {
		case err == nil:
			isNew = true
		case db.IsUniqueViolation(err):
			// registered concurrently; refresh instead
			if _, err := d.update(ctx, userID, displayName, contactHandle); err != nil {
				return models.User{}, false, err
			}
		default:
			return models.User{}, false, fmt.Errorf("insert user: %w", err)
		}
	}

	user, err := d.Get(ctx, userID)
	if err != nil {
		return models.User{}, false, err
	}

	d.logger.Info("user registered", "user_id", userID, "new", isNew)
	return user, isNew, nil
}

func (d *Directory) update(ctx context.Context, userID, displayName, contactHandle string) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE app_user
		SET display_name = $1, contact_handle = $2, last_seen_at = $3
		WHERE id = $4
	`, displayName, contactHandle, now(d.clock), userID)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return n > 0, nil
}

// Get returns the user or ErrUserNotFound.
func (d *Directory) Get(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, display_name, contact_handle, created_at, last_seen_at
		FROM app_user
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.DisplayName, &u.ContactHandle, &u.CreatedAt, &u.LastSeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	u.LastSeenAt = u.LastSeenAt.UTC()
	return u, nil
}

// Touch records that the user was seen now.
func (d *Directory) Touch(ctx context.Context, userID string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE app_user SET last_seen_at = $1 WHERE id = $2
	`, now(d.clock), userID)
	if err != nil {
		return fmt.Errorf("touch user: %w", err)
	}
	return nil
}
