package models

import "time"

// Load outcomes recorded in the journal.
const (
	LoadOutcomeSuccess = "success"
	LoadOutcomeFailure = "failure"
)

// MLoadEvent is one journal row describing a single fetch.
type MLoadEvent struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	Records    int       `json:"records"`
	Holdings   int       `json:"holdings"`
	Error      string    `json:"error,omitempty"`
}
