package usecase

import (
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// newSession starts a session artifact for a command run.
func newSession(command, repository string, inputs map[string]string) *domain.SessionArtifact {
	return &domain.SessionArtifact{
		Command:    command,
		Repository: repository,
		StartedAt:  time.Now(),
		Inputs:     inputs,
	}
}

func recordOutcome(s *domain.SessionArtifact, envelope, action, detail string) {
	s.Outcomes = append(s.Outcomes, domain.SessionOutcome{
		Envelope: envelope,
		Action:   action,
		Detail:   detail,
	})
}

// saveSession closes the artifact and hands it to the store. A store failure
// must not fail the operation itself; it is reported and dropped.
func saveSession(store ports.SessionStore, reporter ports.Reporter, s *domain.SessionArtifact, opErr error) {
	if store == nil {
		return
	}
	s.FinishedAt = time.Now()
	if opErr != nil {
		s.Err = opErr.Error()
	}
	if _, err := store.SaveSession(*s); err != nil && reporter != nil {
		reporter.Warnf("could not save session: %v", err)
	}
}
