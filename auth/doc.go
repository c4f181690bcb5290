// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity verification and token generation utilities.

# Identity Signatures

The identity provider authenticates users and signs their IDs with a shared
secret. The server only verifies the signature:

	sig := auth.SignUser(userID, secret)
	err := auth.ValidateUserSignature(userID, sig, secret)

Signatures are HMAC-SHA256, URL-safe base64 without padding.

# Admin Keys

Administrators carry a second HMAC, scoped separately so a user signature can
never be replayed as an admin key:

	adminKey := auth.GenerateAdminKey(userID, secret)
	err := auth.ValidateAdminKey(userID, adminKey, secret)

# Ballot Tokens

Each cast vote gets a fresh random UUID linking the eligibility record to the
ballot:

	token, err := auth.NewBallotToken()

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
