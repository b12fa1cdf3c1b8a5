package tui

import "github.com/libertil/eea-cdrtools/internal/domain"

type envelopesLoadedMsg struct {
	envs []domain.Envelope
	err  error
}

type historyLoadedMsg struct {
	url    string
	events []domain.HistoryEvent
	err    error
}
