// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, options
  - CastVoteRequest: option_id
  - RegisterUserRequest: display_name, contact_handle

# Response Types

Types for JSON responses:

  - ListPollsResponse: polls, each with a humanized "since" label
  - HasVotedResponse: poll_id, has_voted
  - DeletePollResponse: poll_id, message
  - Receipt: ballot_id, poll_id, cast_at
  - Results: poll summary, per-option votes, total, winners, tie
  - Participants: poll summary, total, who voted and when
  - ErrorResponse: error, message, problems

# Domain Types

  - Poll: poll metadata, lifecycle state and ordered options
  - PollSummary: Poll without its options
  - Option: voting option with its creation position
  - User: directory record for a voter

# Constants

State values:

	StateOpen   = "open"
	StateClosed = "closed"

Publication is a flag on a closed poll, not a third state.

Creation limits:

	MaxTitleLength  = 300
	MaxOptionLength = 100
	MinOptions      = 2
	MaxOptions      = 10
*/
package models
