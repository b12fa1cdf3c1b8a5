package cdrclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// History returns the envelope with its workflow history populated.
func (c *Client) History(ctx context.Context, envelopeURL string) (domain.Envelope, error) {
	return c.envelopeView(ctx, "cdrclient.history", envelopeURL,
		"history,countryCode,periodStartYear,obligations")
}

// CurrentWorkitem returns the workflow event the envelope sits in now.
func (c *Client) CurrentWorkitem(ctx context.Context, envelopeURL string) (domain.HistoryEvent, error) {
	const op = "cdrclient.workitem"

	u := strings.TrimRight(envelopeURL, "/") + "/get_current_workitem"
	var w wireHistory
	if err := c.getJSON(ctx, op, u, &w); err != nil {
		return domain.HistoryEvent{}, err
	}
	return w.toDomain(), nil
}

// Activate claims the workitem for the authenticated user.
func (c *Client) Activate(ctx context.Context, envelopeURL string, workitemID int) error {
	u := fmt.Sprintf("%s/activateWorkitem?workitem_id=%d&DestinationURL=%s",
		strings.TrimRight(envelopeURL, "/"), workitemID, envelopeURL)
	return c.getOK(ctx, "cdrclient.activate", u)
}

// StartQA completes the workitem without releasing the envelope, which makes
// the workflow engine schedule the automatic QA run.
func (c *Client) StartQA(ctx context.Context, envelopeURL string, workitemID int) error {
	u := fmt.Sprintf("%s/completeWorkitem?workitem_id=%d&release_and_finish=0&DestinationURL=%s",
		strings.TrimRight(envelopeURL, "/"), workitemID, envelopeURL)
	return c.getOK(ctx, "cdrclient.startqa", u)
}
