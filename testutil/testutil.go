// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/council-vote/auth"
	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/cliparse"
	"github.com/danielhkuo/council-vote/db"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "council.db")
	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "file:test.db",
		DatabaseType:       cliparse.DatabaseSQLite,
		IdentitySecret:     "test-identity-secret",
		PurgeTokensOnClose: true,
	}
}

// NewTestEngine builds an engine over conn with logging discarded
func NewTestEngine(conn *sql.DB, cfg cliparse.Config) *ballot.Engine {
	return ballot.NewEngine(conn, ballot.Options{
		PurgeTokensOnClose: cfg.PurgeTokensOnClose,
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// CreateTestUser registers a user with a derived display name
func CreateTestUser(t *testing.T, engine *ballot.Engine, userID string) models.User {
	t.Helper()

	user, _, err := engine.RegisterUser(context.Background(), userID, "Student "+userID, userID+"@school.example")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestPoll creates an open poll with the given options
func CreateTestPoll(t *testing.T, engine *ballot.Engine, title string, options ...string) models.Poll {
	t.Helper()

	poll, err := engine.CreatePoll(context.Background(), title, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// OptionID returns the id of the option with the given text
func OptionID(t *testing.T, poll models.Poll, text string) string {
	t.Helper()

	for _, o := range poll.Options {
		if o.Text == text {
			return o.ID
		}
	}
	t.Fatalf("Poll %s has no option %q", poll.ID, text)
	return ""
}

// UserHeaders returns the identity headers for an ordinary user
func UserHeaders(cfg cliparse.Config, userID string) map[string]string {
	return map[string]string{
		middleware.HeaderUserID:        userID,
		middleware.HeaderUserSignature: auth.SignUser(userID, cfg.IdentitySecret),
	}
}

// AdminHeaders returns the identity headers for an administrator
func AdminHeaders(cfg cliparse.Config, userID string) map[string]string {
	headers := UserHeaders(cfg, userID)
	headers[middleware.HeaderAdminKey] = auth.GenerateAdminKey(userID, cfg.IdentitySecret)
	return headers
}

// AsUser attaches an already-verified identity to the request, for calling
// handlers directly without the identity middleware
func AsUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), middleware.Identity{UserID: userID}))
}

// AsAdmin is AsUser for an administrator
func AsAdmin(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), middleware.Identity{UserID: userID, Admin: true}))
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorMessage checks the message field of a JSON error response
func AssertErrorMessage(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Message != expected {
		t.Errorf("Expected message %q, got %q", expected, resp.Message)
	}
}
