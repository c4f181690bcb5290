// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the council-vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, cfg)

# Endpoints

Health:

	GET /health
	GET /

Profiles (user):

	PUT /users/me - Register or refresh profile
	GET /users/me - Own profile

Polls:

	POST   /polls              - Create poll (admin)
	GET    /polls              - List polls, open first
	GET    /polls/{id}         - Poll and options
	DELETE /polls/{id}         - Delete poll (admin)
	POST   /polls/{id}/close   - Stop accepting ballots (admin)
	POST   /polls/{id}/publish - Release results (admin)

Voting (user):

	POST /polls/{id}/votes   - Cast ballot
	GET  /polls/{id}/my-vote - Has the caller voted

Results:

	GET /polls/{id}/results      - Tally (admins always, others once published)
	GET /polls/{id}/participants - Who voted and when (admin)

# Identity

Every route except health and root is wrapped in middleware.WithIdentity,
which verifies X-User-ID and X-User-Signature against cfg.IdentitySecret.
Admin routes also pass through middleware.RequireAdmin, which requires a
valid X-Admin-Key for the same user.
*/
package router
