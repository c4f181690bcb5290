// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

type VotingHandler struct {
	engine *ballot.Engine
}

func NewVotingHandler(engine *ballot.Engine) *VotingHandler {
	return &VotingHandler{engine: engine}
}

// CastVote handles POST /polls/{id}/votes
// Returns a receipt; tallies are never part of the response
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	receipt, err := h.engine.CastVote(r.Context(), id.UserID, pollID, req.OptionID)
	if err != nil {
		writeError(w, err, "failed to cast vote", "poll_id", pollID, "user_id", id.UserID)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, receipt)
}

// GetMyVote handles GET /polls/{id}/my-vote
// Reports whether the caller has voted, never what they voted for
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	voted, err := h.engine.HasVoted(r.Context(), id.UserID, pollID)
	if err != nil {
		writeError(w, err, "failed to check vote", "poll_id", pollID, "user_id", id.UserID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{
		PollID:   pollID,
		HasVoted: voted,
	})
}
