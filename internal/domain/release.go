package domain

import "time"

// Release holds the outcome of one tagging run.

type Release struct {
	Previous   Tag
	Tag        Tag
	Name       string
	Message    string
	Pushed     bool
	ReleaseURL string
}

// RunRecord is the journal entry written after a tagging run.
type RunRecord struct {
	SessionID   string    `json:"session_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	PreviousTag string    `json:"previous_tag,omitempty"`
	CreatedTag  string    `json:"created_tag"`
	Message     string    `json:"message"`
	Remote      string    `json:"remote,omitempty"`
	Pushed      bool      `json:"pushed"`
	ReleaseURL  string    `json:"release_url,omitempty"`
}
