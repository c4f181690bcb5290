// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/handlers"
	"github.com/danielhkuo/council-vote/middleware"
)

func NewRouter(engine *ballot.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(engine)
	pollHandler := handlers.NewPollHandler(engine)
	votingHandler := handlers.NewVotingHandler(engine)
	resultsHandler := handlers.NewResultsHandler(engine)

	user := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithIdentity(cfg.IdentitySecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return user(middleware.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Profiles
	mux.HandleFunc("PUT /users/me", user(userHandler.Register))
	mux.HandleFunc("GET /users/me", user(userHandler.GetMe))

	// Poll management
	mux.HandleFunc("POST /polls", admin(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", user(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", user(pollHandler.GetPoll))
	mux.HandleFunc("DELETE /polls/{id}", admin(pollHandler.DeletePoll))
	mux.HandleFunc("POST /polls/{id}/close", admin(pollHandler.ClosePoll))
	mux.HandleFunc("POST /polls/{id}/publish", admin(pollHandler.PublishResults))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", user(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", user(votingHandler.GetMyVote))

	// Results (sealed until published, except for admins)
	mux.HandleFunc("GET /polls/{id}/results", user(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/participants", admin(resultsHandler.GetParticipants))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("council-vote API v1"))
	})

	return mux
}
