package models

import "time"

// Poll state constants
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Limits applied when a poll is created
const (
	MaxTitleLength  = 300
	MaxOptionLength = 100
	MinOptions      = 2
	MaxOptions      = 10
)

// Request types

type CreatePollRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

type RegisterUserRequest struct {
	DisplayName   string `json:"display_name"`
	ContactHandle string `json:"contact_handle"`
}

// Response types

type PollListItem struct {
	Poll
	Since string `json:"since"` // humanized age of the poll's current state
}

type ListPollsResponse struct {
	Polls []PollListItem `json:"polls"`
}

type HasVotedResponse struct {
	PollID   string `json:"poll_id"`
	HasVoted bool   `json:"has_voted"`
}

type DeletePollResponse struct {
	PollID  string `json:"poll_id"`
	Message string `json:"message"`
}

// Domain types

type Poll struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	State            string     `json:"state"`
	ResultsPublished bool       `json:"results_published"`
	CreatedAt        time.Time  `json:"created_at"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	Options          []Option   `json:"options"`
}

func (p Poll) IsOpen() bool {
	return p.State == StateOpen
}

// HasOption reports whether optionID belongs to the poll.
func (p Poll) HasOption(optionID string) bool {
	for _, o := range p.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func (p Poll) Summary() PollSummary {
	return PollSummary{
		ID:               p.ID,
		Title:            p.Title,
		State:            p.State,
		ResultsPublished: p.ResultsPublished,
		CreatedAt:        p.CreatedAt,
		ClosedAt:         p.ClosedAt,
		PublishedAt:      p.PublishedAt,
	}
}

type PollSummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	State            string     `json:"state"`
	ResultsPublished bool       `json:"results_published"`
	CreatedAt        time.Time  `json:"created_at"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type User struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	ContactHandle string    `json:"contact_handle"`
	CreatedAt     time.Time `json:"created_at"`
	LastSeenAt    time.Time `json:"last_seen_at"`
}

// Receipt confirms a cast vote. It carries no tally information.
type Receipt struct {
	BallotID string    `json:"ballot_id"`
	PollID   string    `json:"poll_id"`
	CastAt   time.Time `json:"cast_at"`
}

// Tally types

type OptionTally struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
	Votes    int    `json:"votes"`
}

type Results struct {
	Poll       PollSummary   `json:"poll"`
	Options    []OptionTally `json:"options"` // votes desc, then position
	TotalVotes int           `json:"total_votes"`
	Winners    []OptionTally `json:"winners"`
	Tie        bool          `json:"tie"`
}

type Participant struct {
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	ContactHandle string    `json:"contact_handle"`
	CastAt        time.Time `json:"cast_at"`
}

type Participants struct {
	Poll         PollSummary   `json:"poll"`
	TotalVotes   int           `json:"total_votes"`
	Participants []Participant `json:"participants"` // castAt desc, then user id
}

// Error response

type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Problems []string `json:"problems,omitempty"`
}
