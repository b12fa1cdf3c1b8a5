package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/libertil/eea-cdrtools/internal/usecase"
)

// Search runs in the background can stretch across several countries, each
// an API call. Anything past this points at a stuck connection.
const searchTimeout = 5 * time.Minute

func cmdSearchEnvelopes(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Finder == nil {
			return envelopesLoadedMsg{err: errors.New("Finder is nil")}
		}
		log := depsLogger(deps)

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		envs, err := usecase.NewListEnvelopes(deps.Finder).Execute(ctx, usecase.ListRequest{
			Obligation:    deps.Query.Obligation,
			Countries:     deps.Query.Countries,
			ReportingYear: deps.Query.Year,
			Released:      deps.Query.Released,
		})
		if err != nil {
			log.Error("browse.search.failed", "obligation", deps.Query.Obligation.Number, "err", err)
			return envelopesLoadedMsg{err: err}
		}

		log.Info("browse.search.ok", "obligation", deps.Query.Obligation.Number, "envelopes", len(envs))
		return envelopesLoadedMsg{envs: envs}
	}
}

func cmdLoadHistory(deps Deps, envelopeURL string) tea.Cmd {
	return func() tea.Msg {
		if deps.Workflow == nil {
			return historyLoadedMsg{url: envelopeURL, err: errors.New("Workflow is nil")}
		}
		log := depsLogger(deps)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		env, err := deps.Workflow.History(ctx, envelopeURL)
		if err != nil {
			log.Error("browse.history.failed", "envelope", envelopeURL, "err", err)
			return historyLoadedMsg{url: envelopeURL, err: err}
		}

		if deps.Debug {
			log.Debug("browse.history.ok", "envelope", envelopeURL, "events", len(env.History))
		}
		return historyLoadedMsg{url: envelopeURL, events: env.History}
	}
}

func depsLogger(deps Deps) *slog.Logger {
	if deps.Logger == nil {
		return slog.Default()
	}
	return deps.Logger
}
