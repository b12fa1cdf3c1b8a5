package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/usecase/extract"
)

// Output format names as the CLI spells them. The config file calls the
// table format "pretty"; resolveFormat maps one onto the other.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func resolveFormat(flag, configured string) string {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		f = configured
	}
	if f == "" || f == domain.FormatPretty {
		return formatTable
	}
	return f
}

func unsupportedFormat(format string) error {
	return usageErr(fmt.Errorf("unsupported format %q (expected table|json|csv)", format))
}

// printQuery marshals v and applies a JSONPath expression to it. Paths use
// the Go field names, e.g. '$[0].URL'.
func printQuery(w io.Writer, v any, expr string) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out, err := extract.Query(body, expr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func printEnvelopes(w io.Writer, envs []domain.Envelope, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, envs)
	case formatCSV:
		return writeCSV(w, envelopeCSVHeader, envelopeCSVRows(envs))
	case formatTable:
		if len(envs) == 0 {
			_, err := fmt.Fprintln(w, "(no envelopes found)")
			return err
		}
		rows := make([][]string, 0, len(envs))
		for _, e := range envs {
			rows = append(rows, []string{
				e.CountryCode,
				fmtYear(e.PeriodStartYear),
				fmtBool(e.IsReleased),
				e.Status,
				fmtDate(e.StatusDate),
				strconv.Itoa(len(e.Files)),
				e.URL,
			})
		}
		return renderTable(w, []string{"COUNTRY", "YEAR", "RELEASED", "STATUS", "CHANGED", "FILES", "URL"}, rows)
	default:
		return unsupportedFormat(format)
	}
}

// The CSV column names repeat the API field names, so a saved listing can
// feed the list-driven commands (column "url").
var envelopeCSVHeader = []string{
	"url", "title", "countryCode", "periodStartYear",
	"isReleased", "status", "statusDate", "files",
}

func envelopeCSVRows(envs []domain.Envelope) [][]string {
	rows := make([][]string, 0, len(envs))
	for _, e := range envs {
		rows = append(rows, []string{
			e.URL,
			e.Title,
			e.CountryCode,
			fmtYear(e.PeriodStartYear),
			fmtBool(e.IsReleased),
			e.Status,
			fmtDate(e.StatusDate),
			strconv.Itoa(len(e.Files)),
		})
	}
	return rows
}

func printEnvelopeDetail(w io.Writer, e domain.Envelope, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, e)
	case formatCSV:
		return writeCSV(w, envelopeCSVHeader, envelopeCSVRows([]domain.Envelope{e}))
	case formatTable:
		fmt.Fprintf(w, "URL:         %s\n", e.URL)
		fmt.Fprintf(w, "Title:       %s\n", e.Title)
		if e.Description != "" {
			fmt.Fprintf(w, "Description: %s\n", e.Description)
		}
		fmt.Fprintf(w, "Country:     %s\n", e.CountryCode)
		fmt.Fprintf(w, "Period:      %s\n", fmtPeriod(e))
		fmt.Fprintf(w, "Released:    %s\n", fmtBool(e.IsReleased))
		fmt.Fprintf(w, "Status:      %s\n", fmtStatus(e))
		if len(e.Obligations) > 0 {
			fmt.Fprintf(w, "Obligations: %s\n", joinInts(e.Obligations))
		}
		if e.Creator != "" {
			fmt.Fprintf(w, "Creator:     %s\n", e.Creator)
		}
		fmt.Fprintf(w, "Files:       %d\n", len(e.Files))
		for _, f := range e.Files {
			fmt.Fprintf(w, "  - %s (%s, %s)\n", f.Name(), f.ContentType, fmtDate(f.UploadDate))
		}
		return nil
	default:
		return unsupportedFormat(format)
	}
}

func printHistory(w io.Writer, e domain.Envelope, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, e.History)
	case formatCSV:
		rows := make([][]string, 0, len(e.History))
		for _, h := range e.History {
			rows = append(rows, []string{
				strconv.Itoa(h.ID), h.ActivityID, h.ActivityStatus, fmtDateTime(h.Modified),
			})
		}
		return writeCSV(w, []string{"id", "activity", "status", "modified"}, rows)
	case formatTable:
		if len(e.History) == 0 {
			_, err := fmt.Fprintln(w, "(no history)")
			return err
		}
		rows := make([][]string, 0, len(e.History))
		for _, h := range e.History {
			rows = append(rows, []string{
				strconv.Itoa(h.ID), h.ActivityID, h.ActivityStatus, fmtDateTime(h.Modified),
			})
		}
		return renderTable(w, []string{"ID", "ACTIVITY", "STATUS", "MODIFIED"}, rows)
	default:
		return unsupportedFormat(format)
	}
}

func printFeedbacks(w io.Writer, e domain.Envelope, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, e.Feedbacks)
	case formatCSV:
		rows := make([][]string, 0, len(e.Feedbacks))
		for _, f := range e.Feedbacks {
			rows = append(rows, []string{
				f.Title, f.ActivityID, f.FeedbackStatus, f.PostingDate, strconv.Itoa(len(f.Attachments)),
			})
		}
		return writeCSV(w, []string{"title", "activity", "status", "posted", "attachments"}, rows)
	case formatTable:
		if len(e.Feedbacks) == 0 {
			_, err := fmt.Fprintln(w, "(no feedbacks posted)")
			return err
		}
		rows := make([][]string, 0, len(e.Feedbacks))
		for _, f := range e.Feedbacks {
			rows = append(rows, []string{
				clipCell(f.Title, 48), f.ActivityID, f.FeedbackStatus, f.PostingDate, strconv.Itoa(len(f.Attachments)),
			})
		}
		return renderTable(w, []string{"TITLE", "ACTIVITY", "STATUS", "POSTED", "ATTACHMENTS"}, rows)
	default:
		return unsupportedFormat(format)
	}
}

func fmtYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func fmtBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func fmtPeriod(e domain.Envelope) string {
	switch {
	case e.PeriodStartYear == 0:
		return e.PeriodDescription
	case e.PeriodEndYear == 0 || e.PeriodEndYear == e.PeriodStartYear:
		return joinNonEmpty(strconv.Itoa(e.PeriodStartYear), e.PeriodDescription)
	default:
		span := fmt.Sprintf("%d-%d", e.PeriodStartYear, e.PeriodEndYear)
		return joinNonEmpty(span, e.PeriodDescription)
	}
}

func fmtStatus(e domain.Envelope) string {
	if e.Status == "" {
		return ""
	}
	return joinNonEmpty(e.Status, fmtDate(e.StatusDate))
}

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	if a == "" {
		return b
	}
	return a + " (" + b + ")"
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func clipCell(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
