// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

type PollHandler struct {
	engine *ballot.Engine
}

func NewPollHandler(engine *ballot.Engine) *PollHandler {
	return &PollHandler{engine: engine}
}

// CreatePoll handles POST /polls (admin)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	poll, err := h.engine.CreatePoll(r.Context(), req.Title, req.Options)
	if err != nil {
		writeError(w, err, "failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// ListPolls handles GET /polls
// Open polls first, then closed, then published
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.engine.ListPolls(r.Context())
	if err != nil {
		writeError(w, err, "failed to list polls")
		return
	}

	items := make([]models.PollListItem, 0, len(polls))
	for _, p := range polls {
		items = append(items, models.PollListItem{
			Poll:  p,
			Since: humanize.Time(ballot.StateSince(p)),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: items})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := h.engine.GetPoll(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{id} (admin)
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	if err := h.engine.DeletePoll(r.Context(), pollID); err != nil {
		writeError(w, err, "failed to delete poll", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeletePollResponse{
		PollID:  pollID,
		Message: "Poll deleted",
	})
}

// ClosePoll handles POST /polls/{id}/close (admin)
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := h.engine.ClosePoll(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to close poll", "poll_id", pollID)
		return
	}

	id, _ := middleware.IdentityFrom(r.Context())
	slog.Info("poll closed by admin", "poll_id", pollID, "admin", id.UserID)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// PublishResults handles POST /polls/{id}/publish (admin)
func (h *PollHandler) PublishResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := h.engine.PublishResults(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to publish results", "poll_id", pollID)
		return
	}

	id, _ := middleware.IdentityFrom(r.Context())
	slog.Info("results published by admin", "poll_id", pollID, "admin", id.UserID)

	middleware.JSONResponse(w, http.StatusOK, poll)
}
