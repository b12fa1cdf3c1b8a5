package cdrclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Search queries the envelope API of the bound repository.
func (c *Client) Search(ctx context.Context, q domain.EnvelopeQuery) ([]domain.Envelope, error) {
	const op = "cdrclient.search"

	var res envelopesResponse
	if err := c.getJSON(ctx, op, c.searchURL(q), &res); err != nil {
		return nil, err
	}
	envs := make([]domain.Envelope, 0, len(res.Envelopes))
	for _, w := range res.Envelopes {
		envs = append(envs, w.toDomain())
	}
	return envs, nil
}

// searchURL renders the query keeping the parameter order the API
// documents: selector first, then filters, then the field projection.
func (c *Client) searchURL(q domain.EnvelopeQuery) string {
	var sb strings.Builder
	if q.URL != "" {
		fmt.Fprintf(&sb, "%s/api/envelopes?url=%s", c.base, q.URL)
	} else {
		fmt.Fprintf(&sb, "%s/api/envelopes?obligations=%d", c.base, q.Obligation)
	}
	if q.CountryCode != "" {
		fmt.Fprintf(&sb, "&countryCode=%s", q.CountryCode)
	}
	if q.Released != nil {
		released := 0
		if *q.Released {
			released = 1
		}
		fmt.Fprintf(&sb, "&isReleased=%d", released)
	}
	if !q.ReportingDateStart.IsZero() {
		fmt.Fprintf(&sb, "&reportingDateStart=%s", q.ReportingDateStart.Format("2006-01-02"))
	}
	fields := q.Fields
	if len(fields) == 0 {
		fields = domain.DefaultEnvelopeFields
	}
	fmt.Fprintf(&sb, "&fields=%s", strings.Join(fields, ","))
	return sb.String()
}
