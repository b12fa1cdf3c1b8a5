package ports

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// EnvelopeFinder queries envelopes from a repository's search API.
type EnvelopeFinder interface {
	Search(ctx context.Context, q domain.EnvelopeQuery) ([]domain.Envelope, error)
}
