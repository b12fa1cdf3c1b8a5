package ports

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// FeedbackReader fetches posted feedbacks and their attachments.
type FeedbackReader interface {
	// Feedbacks returns the envelope with its Feedbacks field populated.
	Feedbacks(ctx context.Context, envelopeURL string) (domain.Envelope, error)
	// Attachment downloads a feedback attachment body, typically the QA
	// result HTML page.
	Attachment(ctx context.Context, attachmentURL string) ([]byte, error)
}
