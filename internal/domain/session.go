package domain

import "time"

// Outcome labels for envelope-level results inside a session.
const (
	OutcomeCloned    = "cloned"
	OutcomeDeleted   = "deleted"
	OutcomeSkipped   = "skipped"
	OutcomeActivated = "activated"
	OutcomeFailed    = "failed"
)

// SessionOutcome is one envelope-level result within a session.
type SessionOutcome struct {
	Envelope string
	Action   string
	Detail   string
}

// SessionArtifact represents a persisted CLI operation for later audit:
// which command ran, with which inputs, and what happened per envelope.
// Sensitive input values are masked by the store before saving.
type SessionArtifact struct {
	ID         string
	Command    string
	Repository string

	StartedAt  time.Time
	FinishedAt time.Time

	Inputs   map[string]string
	Outcomes []SessionOutcome
	Err      string
}
