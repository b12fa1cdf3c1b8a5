package ports

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// EnvelopeManager creates and deletes envelopes. Create targets the
// repository the adapter is bound to; Delete acts on the envelope URL.
type EnvelopeManager interface {
	Create(ctx context.Context, countryCode string, ob domain.Obligation, meta domain.EnvelopeMeta) (domain.Envelope, error)
	Delete(ctx context.Context, envelopeURL string) error
}
