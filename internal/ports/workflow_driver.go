package ports

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// WorkflowDriver moves envelopes through the repository workflow.
type WorkflowDriver interface {
	// History returns the envelope with its History field populated.
	History(ctx context.Context, envelopeURL string) (domain.Envelope, error)
	// CurrentWorkitem returns the workflow event the envelope sits in now.
	CurrentWorkitem(ctx context.Context, envelopeURL string) (domain.HistoryEvent, error)
	// Activate claims the workitem so it can be worked on.
	Activate(ctx context.Context, envelopeURL string, workitemID int) error
	// StartQA completes the workitem without releasing, which triggers the
	// automatic QA run.
	StartQA(ctx context.Context, envelopeURL string, workitemID int) error
}
