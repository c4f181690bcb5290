// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the council-vote API.

# Handler Types

Each handler is a thin struct over the ballot engine:

  - UserHandler: Profile registration and lookup
  - PollHandler: Poll creation, listing and the admin lifecycle
  - VotingHandler: Casting ballots and checking participation
  - ResultsHandler: Tallies and participant lists

Handlers are created via constructor functions that accept *ballot.Engine:

	pollHandler := handlers.NewPollHandler(engine)

# Identity

Every handler expects the caller's identity on the request context, put there
by middleware.WithIdentity. A request without one is answered with 401.
Admin-only routes are additionally wrapped in middleware.RequireAdmin.

# Poll Lifecycle

Polls are created open and move one way: open → closed → published.

	POST /polls                 → CreatePoll (admin)
	POST /polls/{id}/votes      → CastVote (open only, once per user)
	POST /polls/{id}/close      → ClosePoll (admin)
	POST /polls/{id}/publish    → PublishResults (admin, closed only)
	GET  /polls/{id}/results    → GetResults (admins always, others once published)

# Errors

Engine errors are mapped to status codes in errors.go: not found → 404,
invalid input → 400 (with a problems list for validation failures),
conflicts → 409 and sealed results → 403. Anything else is logged and
returned as a generic 500.
*/
package handlers
