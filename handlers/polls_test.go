// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/council-vote/ballot"
	"github.com/danielhkuo/council-vote/middleware"
	"github.com/danielhkuo/council-vote/models"
	"github.com/danielhkuo/council-vote/testutil"
)

func newTestEngine(t *testing.T) *ballot.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return testutil.NewTestEngine(db, testutil.GetTestConfig())
}

func TestCreatePoll(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
		problems       int
	}{
		{
			name:           "valid poll",
			body:           models.CreatePollRequest{Title: "Favorite color", Options: []string{"Red", "Blue", "Green"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate options",
			body:           models.CreatePollRequest{Title: "T", Options: []string{"A", "A"}},
			expectedStatus: http.StatusBadRequest,
			problems:       1,
		},
		{
			name:           "too few options",
			body:           models.CreatePollRequest{Title: "T", Options: []string{"A"}},
			expectedStatus: http.StatusBadRequest,
			problems:       1,
		},
		{
			name:           "missing title and options",
			body:           models.CreatePollRequest{},
			expectedStatus: http.StatusBadRequest,
			problems:       2,
		},
		{
			name:           "invalid JSON",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body == nil {
				req = httptest.NewRequest("POST", "/polls", strings.NewReader("{invalid"))
			} else {
				req = testutil.MakeRequest("POST", "/polls", tc.body, nil)
			}
			req = testutil.AsAdmin(req, "chair")
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusCreated {
				var poll models.Poll
				testutil.AssertJSON(t, w, &poll)
				if poll.ID == "" {
					t.Error("Expected poll id in response")
				}
				if poll.State != models.StateOpen {
					t.Errorf("Expected state 'open', got '%s'", poll.State)
				}
				if len(poll.Options) != 3 {
					t.Errorf("Expected 3 options, got %d", len(poll.Options))
				}
				return
			}

			if tc.problems > 0 {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if len(resp.Problems) != tc.problems {
					t.Errorf("Expected %d problems, got %v", tc.problems, resp.Problems)
				}
			}
		})
	}
}

func TestCreatePoll_BodyTooLarge(t *testing.T) {
	handler := NewPollHandler(newTestEngine(t))

	body := `{"title":"` + strings.Repeat("x", middleware.MaxBodyBytes) + `","options":["A","B"]}`
	req := httptest.NewRequest("POST", "/polls", strings.NewReader(body))
	req = testutil.AsAdmin(req, "chair")
	w := httptest.NewRecorder()

	handler.CreatePoll(w, req)

	testutil.AssertStatus(t, w, http.StatusRequestEntityTooLarge)
	testutil.AssertErrorMessage(t, w, "Request body too large")
}

func TestListPolls(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)
	ctx := context.Background()

	older := testutil.CreateTestPoll(t, engine, "Older", "A", "B")
	newer := testutil.CreateTestPoll(t, engine, "Newer", "A", "B")
	if _, err := engine.ClosePoll(ctx, older.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := testutil.AsUser(httptest.NewRequest("GET", "/polls", nil), "u1")
	w := httptest.NewRecorder()
	handler.ListPolls(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListPollsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Polls) != 2 {
		t.Fatalf("Expected 2 polls, got %d", len(resp.Polls))
	}
	if resp.Polls[0].ID != newer.ID || resp.Polls[1].ID != older.ID {
		t.Errorf("Expected open poll before closed poll, got %s, %s", resp.Polls[0].Title, resp.Polls[1].Title)
	}
	for _, p := range resp.Polls {
		if p.Since == "" {
			t.Errorf("Expected humanized since for poll %s", p.ID)
		}
	}
}

func TestListPolls_Empty(t *testing.T) {
	handler := NewPollHandler(newTestEngine(t))

	w := httptest.NewRecorder()
	handler.ListPolls(w, httptest.NewRequest("GET", "/polls", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := strings.TrimSpace(w.Body.String()); body != `{"polls":[]}` {
		t.Errorf("Expected empty poll list, got %s", body)
	}
}

func TestGetPoll(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)
	poll := testutil.CreateTestPoll(t, engine, "Lunch", "Pizza", "Tacos")

	testCases := []struct {
		name           string
		pollID         string
		expectedStatus int
	}{
		{"existing poll", poll.ID, http.StatusOK},
		{"missing poll", "does-not-exist", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/polls/"+tc.pollID, nil)
			req.SetPathValue("id", tc.pollID)
			w := httptest.NewRecorder()

			handler.GetPoll(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				testutil.AssertErrorMessage(t, w, "Poll not found")
				return
			}

			var got models.Poll
			testutil.AssertJSON(t, w, &got)
			if got.Title != "Lunch" || len(got.Options) != 2 {
				t.Errorf("Unexpected poll: %+v", got)
			}
			if got.Options[0].Text != "Pizza" || got.Options[1].Text != "Tacos" {
				t.Errorf("Expected options in creation order, got %+v", got.Options)
			}
		})
	}
}

func TestClosePoll(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)
	poll := testutil.CreateTestPoll(t, engine, "Closing", "A", "B")

	closePoll := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/polls/"+poll.ID+"/close", nil)
		req.SetPathValue("id", poll.ID)
		req = testutil.AsAdmin(req, "chair")
		w := httptest.NewRecorder()
		handler.ClosePoll(w, req)
		return w
	}

	w := closePoll()
	testutil.AssertStatus(t, w, http.StatusOK)

	var closed models.Poll
	testutil.AssertJSON(t, w, &closed)
	if closed.State != models.StateClosed {
		t.Errorf("Expected state 'closed', got '%s'", closed.State)
	}
	if closed.ClosedAt == nil {
		t.Error("Expected closed_at to be set")
	}

	w = closePoll()
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorMessage(t, w, "Poll is already closed")
}

func TestPublishResults(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)
	poll := testutil.CreateTestPoll(t, engine, "Publishing", "A", "B")

	publish := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/polls/"+poll.ID+"/publish", nil)
		req.SetPathValue("id", poll.ID)
		req = testutil.AsAdmin(req, "chair")
		w := httptest.NewRecorder()
		handler.PublishResults(w, req)
		return w
	}

	w := publish()
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorMessage(t, w, "Poll must be closed before publishing results")

	if _, err := engine.ClosePoll(context.Background(), poll.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	w = publish()
	testutil.AssertStatus(t, w, http.StatusOK)

	var published models.Poll
	testutil.AssertJSON(t, w, &published)
	if !published.ResultsPublished || published.PublishedAt == nil {
		t.Errorf("Expected published poll, got %+v", published)
	}

	w = publish()
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorMessage(t, w, "Results are already published")
}

func TestDeletePoll(t *testing.T) {
	engine := newTestEngine(t)
	handler := NewPollHandler(engine)
	poll := testutil.CreateTestPoll(t, engine, "Doomed", "A", "B")

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/polls/"+poll.ID, nil)
		req.SetPathValue("id", poll.ID)
		req = testutil.AsAdmin(req, "chair")
		w := httptest.NewRecorder()
		handler.DeletePoll(w, req)
		return w
	}

	w := del()
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DeletePollResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PollID != poll.ID {
		t.Errorf("Expected poll_id %s, got %s", poll.ID, resp.PollID)
	}

	w = del()
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
