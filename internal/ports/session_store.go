package ports

import "github.com/libertil/eea-cdrtools/internal/domain"

// SessionStore persists session artifacts for later audit.
type SessionStore interface {
	SaveSession(s domain.SessionArtifact) (id string, err error)
}
