package tui

import (
	"log/slog"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

type Deps struct {
	Finder   ports.EnvelopeFinder
	Workflow ports.WorkflowDriver

	Repository domain.Repository
	Query      Query

	Logger *slog.Logger
	Debug  bool
}

// Query narrows the envelope search the browser opens with.
type Query struct {
	Obligation domain.Obligation
	Countries  []string
	Year       int
	Released   *bool
}
