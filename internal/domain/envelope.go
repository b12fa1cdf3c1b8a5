package domain

import (
	"sort"
	"strings"
	"time"
)

// Envelope is a reporting envelope as exposed by the repository search API.
// Date fields are zero when the repository reports them empty; year fields
// are 0 when the envelope has no reporting period.
type Envelope struct {
	URL                string
	Title              string
	Description        string
	CountryCode        string
	IsReleased         bool
	ReportingDate      time.Time
	ModifiedDate       time.Time
	PeriodStartYear    int
	PeriodEndYear      int
	PeriodDescription  string
	IsBlockedByQCError bool
	Status             string
	StatusDate         time.Time
	Creator            string
	HasUnknownQC       bool
	Files              []File
	Obligations        []int

	// Feedbacks and History are populated only when the query projects the
	// corresponding API fields.
	Feedbacks []Feedback
	History   []HistoryEvent
}

// File is a document stored inside an envelope.
type File struct {
	URL         string
	Title       string
	ContentType string
	UploadDate  time.Time
}

// Name returns the stored file name, the last segment of the file URL. The
// title stands in when the URL has no usable segment.
func (f File) Name() string {
	if n := EnvelopeID(f.URL); n != "" {
		return n
	}
	return f.Title
}

// Feedback is a posted feedback item on an envelope. PostingDate is kept as
// the repository sends it; it is passed through to reports unchanged.
type Feedback struct {
	Title           string
	ActivityID      string
	FeedbackStatus  string
	FeedbackMessage string
	PostingDate     string
	Attachments     []Attachment
}

// Attachment is a file attached to a feedback, typically the QA result page.
type Attachment struct {
	URL   string
	Title string
}

// Workflow activity identifiers and states used by the envelope history.
const (
	ActivityDraft            = "Draft"
	ActivityAutomaticQA      = "AutomaticQA"
	ActivityDeleteQAFeedback = "DeleteAutomaticQAFeedback"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusComplete = "complete"
)

// HistoryEvent is one workflow transition in an envelope's history. The same
// shape describes the current workitem.
type HistoryEvent struct {
	ID             int
	ActivityID     string
	ActivityStatus string
	Modified       time.Time
}

// QAInProgress reports whether the event describes a workflow state that a
// new QA run must not interrupt: an active automatic QA, or the feedback
// cleanup activity that follows one.
func (e HistoryEvent) QAInProgress() bool {
	if e.ActivityID == ActivityDeleteQAFeedback {
		return true
	}
	return e.ActivityID == ActivityAutomaticQA && e.ActivityStatus == StatusActive
}

// IsIdleDraft reports whether the envelope sits in an inactive Draft state.
func (e HistoryEvent) IsIdleDraft() bool {
	return e.ActivityID == ActivityDraft && e.ActivityStatus == StatusInactive
}

// LatestCompletedQA returns the modification time of the most recent
// completed automatic QA among events. ok is false when no QA ever completed.
func LatestCompletedQA(events []HistoryEvent) (latest time.Time, ok bool) {
	for _, e := range events {
		if e.ActivityID != ActivityAutomaticQA || e.ActivityStatus != StatusComplete {
			continue
		}
		if !ok || e.Modified.After(latest) {
			latest = e.Modified
			ok = true
		}
	}
	return latest, ok
}

// EnvelopeID returns the envelope code, the last segment of an envelope URL.
func EnvelopeID(envelopeURL string) string {
	trimmed := strings.TrimRight(envelopeURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// ParentCollectionURL returns the collection URL an envelope lives in, with
// a trailing slash. Envelope deletion is posted to the parent.
func ParentCollectionURL(envelopeURL string) string {
	trimmed := strings.TrimRight(envelopeURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[:i+1]
	}
	return trimmed
}

// ID returns the envelope code, the last segment of the envelope URL.
func (e Envelope) ID() string {
	return EnvelopeID(e.URL)
}

// ParentURL returns the collection URL the envelope lives in.
func (e Envelope) ParentURL() string {
	return ParentCollectionURL(e.URL)
}

// FilterByYear keeps envelopes whose reporting period starts in year.
func FilterByYear(envs []Envelope, year int) []Envelope {
	out := make([]Envelope, 0, len(envs))
	for _, e := range envs {
		if e.PeriodStartYear == year {
			out = append(out, e)
		}
	}
	return out
}

// FilterStatusAfter keeps envelopes whose status changed strictly after cutoff.
func FilterStatusAfter(envs []Envelope, cutoff time.Time) []Envelope {
	out := make([]Envelope, 0, len(envs))
	for _, e := range envs {
		if e.StatusDate.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// LatestByCountry reduces envs to the most recent envelope per country,
// judged by StatusDate. The result is ordered by country code so batch
// operations run in a stable order.
func LatestByCountry(envs []Envelope) []Envelope {
	latest := make(map[string]Envelope)
	for _, e := range envs {
		cur, ok := latest[e.CountryCode]
		if !ok || e.StatusDate.After(cur.StatusDate) {
			latest[e.CountryCode] = e
		}
	}
	out := make([]Envelope, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}
