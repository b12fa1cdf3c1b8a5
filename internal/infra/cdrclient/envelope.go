package cdrclient

import (
	"context"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Envelope fetches one envelope by URL with the default field projection.
// The call follows the URL's own host, so it also resolves envelopes that
// live on another instance than the one the client is bound to.
func (c *Client) Envelope(ctx context.Context, envelopeURL string) (domain.Envelope, error) {
	return c.envelopeView(ctx, "cdrclient.envelope", envelopeURL,
		strings.Join(domain.DefaultEnvelopeFields, ","))
}
