package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// renderEnvelopeCard builds the detail view text for one envelope. width
// bounds the longest line so URLs do not blow up the card.
func renderEnvelopeCard(t Theme, e domain.Envelope, width int) string {
	if width < 24 {
		width = 24
	}
	var b strings.Builder

	b.WriteString(t.Title.Render(clampString(e.Title, width)))
	b.WriteString("\n")
	b.WriteString(t.Subtitle.Render(clampString(e.URL, width)))
	b.WriteString("\n\n")

	b.WriteString("Country: ")
	b.WriteString(strings.ToUpper(e.CountryCode))
	if e.PeriodStartYear != 0 {
		b.WriteString(fmt.Sprintf("\nPeriod:  %s", periodLabel(e)))
	}
	b.WriteString("\nState:   ")
	if e.IsReleased {
		b.WriteString("released")
	} else {
		b.WriteString("draft")
	}
	if e.Status != "" {
		b.WriteString(" / ")
		b.WriteString(e.Status)
	}
	if !e.StatusDate.IsZero() {
		b.WriteString(" since ")
		b.WriteString(e.StatusDate.Format("2006-01-02"))
	}
	if e.IsBlockedByQCError {
		b.WriteString("\n")
		b.WriteString(t.Err.Render("Blocked by a QC error"))
	}
	b.WriteString("\n\n")

	if len(e.Files) == 0 {
		b.WriteString(t.Subtitle.Render("(no files)"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Files (%d):\n", len(e.Files)))
	for _, f := range e.Files {
		line := "  - " + f.Name()
		if f.ContentType != "" {
			line += "  (" + f.ContentType + ")"
		}
		b.WriteString(clampString(line, width))
		b.WriteString("\n")
	}
	return b.String()
}

func periodLabel(e domain.Envelope) string {
	if e.PeriodEndYear != 0 && e.PeriodEndYear != e.PeriodStartYear {
		return fmt.Sprintf("%d to %d", e.PeriodStartYear, e.PeriodEndYear)
	}
	return fmt.Sprintf("%d", e.PeriodStartYear)
}

func historyRows(events []domain.HistoryEvent) []table.Row {
	rows := make([]table.Row, 0, len(events))
	for _, ev := range events {
		modified := ""
		if !ev.Modified.IsZero() {
			modified = ev.Modified.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", ev.ID),
			ev.ActivityID,
			ev.ActivityStatus,
			modified,
		})
	}
	return rows
}
