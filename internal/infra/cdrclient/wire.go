package cdrclient

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// The envelope API is loose about scalar encodings: dates arrive as RFC3339
// strings, "" or null; years as numbers or ""; flags as numbers, strings or
// booleans. The flex types absorb all of it.

type flexTime struct{ time.Time }

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	t.Time = ts
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*i = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*i = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("numeric field %q: %w", str, err)
		}
		*i = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = flexInt(n)
	return nil
}

type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "null", `""`, "false", `"false"`, "0", `"0"`:
		*v = false
		return nil
	case "true", `"true"`, "1", `"1"`:
		*v = true
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*v = n != 0
		return nil
	}
	return fmt.Errorf("flag field %s: unsupported encoding", string(b))
}

// wireError tolerates both bare strings and structured error objects.
type wireError struct {
	Message string
}

func (e *wireError) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		e.Message = s
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for _, key := range []string{"message", "error", "detail"} {
		if v, ok := obj[key].(string); ok {
			e.Message = v
			return nil
		}
	}
	e.Message = fmt.Sprintf("%v", obj)
	return nil
}

func joinErrors(errs []wireError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

type envelopesResponse struct {
	Envelopes []wireEnvelope `json:"envelopes"`
	Errors    []wireError    `json:"errors"`
}

type wireEnvelope struct {
	URL                string         `json:"url"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	CountryCode        string         `json:"countryCode"`
	IsReleased         flexBool       `json:"isReleased"`
	ReportingDate      flexTime       `json:"reportingDate"`
	ModifiedDate       flexTime       `json:"modifiedDate"`
	PeriodStartYear    flexInt        `json:"periodStartYear"`
	PeriodEndYear      flexInt        `json:"periodEndYear"`
	PeriodDescription  string         `json:"periodDescription"`
	IsBlockedByQCError flexBool       `json:"isBlockedByQCError"`
	Status             string         `json:"status"`
	StatusDate         flexTime       `json:"statusDate"`
	Creator            string         `json:"creator"`
	HasUnknownQC       flexBool       `json:"hasUnknownQC"`
	Files              []wireFile     `json:"files"`
	Obligations        []flexInt      `json:"obligations"`
	Feedbacks          []wireFeedback `json:"feedbacks"`
	History            []wireHistory  `json:"history"`
}

type wireFile struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	ContentType string   `json:"contentType"`
	UploadDate  flexTime `json:"uploadDate"`
}

type wireFeedback struct {
	Title           string           `json:"title"`
	ActivityID      string           `json:"activityId"`
	FeedbackStatus  string           `json:"feedbackStatus"`
	FeedbackMessage string           `json:"feedbackMessage"`
	PostingDate     string           `json:"postingDate"`
	Attachments     []wireAttachment `json:"attachments"`
}

type wireAttachment struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// History events come from the workflow engine and use snake_case keys.
type wireHistory struct {
	ID             flexInt  `json:"id"`
	ActivityID     string   `json:"activity_id"`
	ActivityStatus string   `json:"activity_status"`
	Modified       flexTime `json:"modified"`
}

func (w wireEnvelope) toDomain() domain.Envelope {
	env := domain.Envelope{
		URL:                w.URL,
		Title:              w.Title,
		Description:        w.Description,
		CountryCode:        w.CountryCode,
		IsReleased:         bool(w.IsReleased),
		ReportingDate:      w.ReportingDate.Time,
		ModifiedDate:       w.ModifiedDate.Time,
		PeriodStartYear:    int(w.PeriodStartYear),
		PeriodEndYear:      int(w.PeriodEndYear),
		PeriodDescription:  w.PeriodDescription,
		IsBlockedByQCError: bool(w.IsBlockedByQCError),
		Status:             w.Status,
		StatusDate:         w.StatusDate.Time,
		Creator:            w.Creator,
		HasUnknownQC:       bool(w.HasUnknownQC),
	}
	for _, f := range w.Files {
		env.Files = append(env.Files, domain.File{
			URL:         f.URL,
			Title:       f.Title,
			ContentType: f.ContentType,
			UploadDate:  f.UploadDate.Time,
		})
	}
	for _, ob := range w.Obligations {
		env.Obligations = append(env.Obligations, int(ob))
	}
	for _, fb := range w.Feedbacks {
		env.Feedbacks = append(env.Feedbacks, fb.toDomain())
	}
	for _, h := range w.History {
		env.History = append(env.History, h.toDomain())
	}
	return env
}

func (w wireFeedback) toDomain() domain.Feedback {
	fb := domain.Feedback{
		Title:           w.Title,
		ActivityID:      w.ActivityID,
		FeedbackStatus:  w.FeedbackStatus,
		FeedbackMessage: w.FeedbackMessage,
		PostingDate:     w.PostingDate,
	}
	for _, a := range w.Attachments {
		fb.Attachments = append(fb.Attachments, domain.Attachment{URL: a.URL, Title: a.Title})
	}
	return fb
}

func (w wireHistory) toDomain() domain.HistoryEvent {
	return domain.HistoryEvent{
		ID:             int(w.ID),
		ActivityID:     w.ActivityID,
		ActivityStatus: w.ActivityStatus,
		Modified:       w.Modified.Time,
	}
}
