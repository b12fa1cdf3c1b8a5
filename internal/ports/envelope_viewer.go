package ports

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// EnvelopeViewer fetches one envelope by URL, metadata and files included.
type EnvelopeViewer interface {
	Envelope(ctx context.Context, envelopeURL string) (domain.Envelope, error)
}
