// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
)

// Client-facing messages for expected outcomes. Each vote failure reads
// differently so the UI can tell them apart.
var errorMessages = []struct {
	err     error
	message string
}{
	{ballot.ErrPollNotFound, "Poll not found"},
	{ballot.ErrUserNotFound, "User not registered"},
	{ballot.ErrInvalidOption, "Option does not belong to this poll"},
	{ballot.ErrPollClosed, "Poll is closed"},
	{ballot.ErrAlreadyVoted, "You have already voted in this poll"},
	{ballot.ErrAlreadyClosed, "Poll is already closed"},
	{ballot.ErrNotClosed, "Poll must be closed before publishing results"},
	{ballot.ErrAlreadyPublished, "Results are already published"},
	{ballot.ErrResultsSealed, "Results are not published yet"},
}

// statusFor maps an engine error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ballot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ballot.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ballot.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ballot.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds to a failed engine call. Unexpected errors are logged
// with the given context and reported without detail.
func writeError(w http.ResponseWriter, err error, logMsg string, logArgs ...any) {
	var verr *ballot.ValidationError
	if errors.As(err, &verr) {
		middleware.ValidationErrorResponse(w, verr.Problems)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(logMsg, append(logArgs, "error", err)...)
		middleware.ErrorResponse(w, status, "Internal server error")
		return
	}

	message := err.Error()
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			message = m.message
			break
		}
	}
	middleware.ErrorResponse(w, status, message)
}

// caller returns the request's verified identity, answering 401 when the
// route was mounted without WithIdentity.
func caller(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok || id.UserID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Identity required")
		return middleware.Identity{}, false
	}
	return id, true
}
