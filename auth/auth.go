// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid identity signature")
	ErrInvalidAdminKey  = errors.New("invalid admin key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewBallotToken mints the opaque value that links an eligibility token to
// its ballot. Random v4 UUIDs carry no information about the voter.
func NewBallotToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate ballot token: %w", err)
	}
	return id.String(), nil
}

// sign computes the URL-safe, unpadded HMAC-SHA256 of scope:subject.
func sign(scope, subject, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(scope + ":" + subject))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// SignUser returns the signature the identity provider attaches to a user ID.
// It is deterministic, so validation needs no stored state.
func SignUser(userID, secret string) string {
	return sign("user", userID, secret)
}

// ValidateUserSignature checks that signature was issued for userID
func ValidateUserSignature(userID, signature, secret string) error {
	if userID == "" {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(signature), []byte(SignUser(userID, secret))) {
		return ErrInvalidSignature
	}
	return nil
}

// GenerateAdminKey creates the key that marks userID as an administrator.
func GenerateAdminKey(userID, secret string) string {
	return sign("admin", userID, secret)
}

// ValidateAdminKey checks if the provided admin key is valid for the user
func ValidateAdminKey(userID, adminKey, secret string) error {
	if userID == "" || adminKey == "" {
		return ErrInvalidAdminKey
	}
	if !hmac.Equal([]byte(adminKey), []byte(GenerateAdminKey(userID, secret))) {
		return ErrInvalidAdminKey
	}
	return nil
}
