// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
)

type ResultsHandler struct {
	engine *ballot.Engine
}

func NewResultsHandler(engine *ballot.Engine) *ResultsHandler {
	return &ResultsHandler{engine: engine}
}

// GetResults handles GET /polls/{id}/results
// Administrators always see tallies; everyone else only once published
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	results, err := h.engine.GetResults(r.Context(), pollID, id.Admin)
	if err != nil {
		writeError(w, err, "failed to compute results", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetParticipants handles GET /polls/{id}/participants (admin)
func (h *ResultsHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	participants, err := h.engine.GetParticipants(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to list participants", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, participants)
}
