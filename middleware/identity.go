// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/council-vote/auth"
)

// Identity headers set by the identity provider
const (
	HeaderUserID        = "X-User-ID"
	HeaderUserSignature = "X-User-Signature"
	HeaderAdminKey      = "X-Admin-Key"
)

// Identity is the caller as asserted by the identity provider.
type Identity struct {
	UserID string
	Admin  bool
}

type identityKey struct{}

// WithIdentity verifies the signed user id and optional admin key and stores
// the caller's Identity in the request context. Requests without a valid
// signature are rejected with 401.
func WithIdentity(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			ErrorResponse(w, http.StatusUnauthorized, HeaderUserID+" header required")
			return
		}

		if err := auth.ValidateUserSignature(userID, r.Header.Get(HeaderUserSignature), secret); err != nil {
			slog.Warn("rejected identity", "user_id", userID, "remote", GetClientIP(r))
			ErrorResponse(w, http.StatusUnauthorized, "Invalid user signature")
			return
		}

		id := Identity{UserID: userID}
		if key := r.Header.Get(HeaderAdminKey); key != "" {
			if err := auth.ValidateAdminKey(userID, key, secret); err != nil {
				slog.Warn("rejected admin key", "user_id", userID, "remote", GetClientIP(r))
				ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
				return
			}
			id.Admin = true
		}

		next(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	}
}

// RequireAdmin rejects callers without a valid admin key. It must run
// inside WithIdentity.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Identity required")
			return
		}
		if !id.Admin {
			ErrorResponse(w, http.StatusForbidden, "Administrator access required")
			return
		}
		next(w, r)
	}
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
