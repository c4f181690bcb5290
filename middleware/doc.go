// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms).

# Identity

The identity provider signs each request with a shared secret:

	X-User-ID          the caller's user id
	X-User-Signature   HMAC of "user:" + id
	X-Admin-Key        HMAC of "admin:" + id, administrators only

WithIdentity verifies the headers and stores an Identity in the request
context; RequireAdmin additionally rejects non-administrators:

	mux.HandleFunc("POST /polls",
		middleware.WithIdentity(secret, middleware.RequireAdmin(h.CreatePoll)))

	id, _ := middleware.IdentityFrom(r.Context())

Missing or invalid signatures get 401; valid non-admin callers on admin
routes get 403.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-User-ID, X-User-Signature, X-Admin-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationErrorResponse(w, problems)

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

Bodies are capped at MaxBodyBytes; BodyErrorResponse answers oversized
bodies with 413 and anything else with 400.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs and rejected-identity warnings.
*/
package middleware
