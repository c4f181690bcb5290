// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the engine for an expected outcome
// matches exactly one of these under errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrPollNotFound     = fmt.Errorf("poll %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidOption    = fmt.Errorf("%w: option does not belong to poll", ErrInvalidInput)
	ErrPollClosed       = fmt.Errorf("%w: poll is closed", ErrConflict)
	ErrAlreadyVoted     = fmt.Errorf("%w: user already voted in this poll", ErrConflict)
	ErrAlreadyClosed    = fmt.Errorf("%w: poll is already closed", ErrConflict)
	ErrNotClosed        = fmt.Errorf("%w: poll is not closed", ErrConflict)
	ErrAlreadyPublished = fmt.Errorf("%w: results already published", ErrConflict)
	ErrResultsSealed    = fmt.Errorf("%w: results are not published", ErrForbidden)
)

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
