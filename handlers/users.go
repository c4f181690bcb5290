// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

type UserHandler struct {
	engine *ballot.Engine
}

func NewUserHandler(engine *ballot.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// Register handles PUT /users/me
// Creates the caller's profile or refreshes an existing one
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.RegisterUserRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	user, isNew, err := h.engine.RegisterUser(r.Context(), id.UserID, req.DisplayName, req.ContactHandle)
	if err != nil {
		writeError(w, err, "failed to register user", "user_id", id.UserID)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
		slog.Info("user registered (new)", "user_id", user.ID)
	}

	middleware.JSONResponse(w, status, user)
}

// GetMe handles GET /users/me
// Returns the caller's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.engine.GetUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err, "failed to get user", "user_id", id.UserID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
