package cdrclient

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// QA result pages are HTML tables of a few hundred KB; anything past this
// points at a misbehaving server.
const maxAttachmentSize = 32 << 20

// Feedbacks returns the envelope with its posted feedbacks populated.
func (c *Client) Feedbacks(ctx context.Context, envelopeURL string) (domain.Envelope, error) {
	return c.envelopeView(ctx, "cdrclient.feedbacks", envelopeURL,
		"feedbacks,countryCode,periodStartYear,obligations")
}

// Attachment downloads a feedback attachment body.
func (c *Client) Attachment(ctx context.Context, attachmentURL string) ([]byte, error) {
	const op = "cdrclient.attachment"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachmentURL, nil)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: attachmentURL, Err: err}
	}
	res, err := c.api.Do(req)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindRemote, Path: attachmentURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, remoteErr(op, attachmentURL, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxAttachmentSize+1))
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindRemote, Path: attachmentURL, Err: err}
	}
	if len(body) > maxAttachmentSize {
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: attachmentURL,
			Err:  errors.New("attachment exceeds size limit"),
		}
	}
	return body, nil
}
