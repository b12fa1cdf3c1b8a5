package usecase

import (
	"context"
	"testing"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

const qaResultPage = `<html><body><table>
<tr>
  <td class="bullet"><div class="error"><a href="#c1">BLOCKER01</a></div></td>
  <td><span class="largeText">Missing pollutant code</span></td>
</tr>
<tr>
  <td class="bullet"><div class="warning"><a href="#c2">W020</a></div></td>
  <td><span class="largeText">Deprecated measurement unit</span></td>
</tr>
</table></body></html>`

func TestQAReportFlattensCheckResults(t *testing.T) {
	envURL := "https://cdr.example/es/eu/aqd/d/envx1"
	feedbacks := &fakeFeedbacks{
		envelopes: map[string]domain.Envelope{
			envURL: {
				URL:             envURL,
				CountryCode:     "es",
				PeriodStartYear: 2021,
				Obligations:     []int{672},
				Feedbacks: []domain.Feedback{{
					Title:           "Automatic QA result",
					FeedbackStatus:  "BLOCKER",
					FeedbackMessage: "2 errors",
					PostingDate:     "2022-03-01T10:00:00Z",
					Attachments: []domain.Attachment{
						{URL: envURL + "/feedback1/qa.html", Title: "qa.html"},
					},
				}},
			},
		},
		attachments: map[string][]byte{
			envURL + "/feedback1/qa.html": []byte(qaResultPage),
		},
	}
	lists := &fakeLists{rows: []domain.ListRow{
		{"CDREnvelope": envURL},
	}}

	uc := NewQAReport(feedbacks, lists, &fakeReporter{})
	records, err := uc.Execute(context.Background(), QAReportRequest{
		Path:   "envelopes.csv",
		Column: "CDREnvelope",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected one row per check result, got %d", len(records))
	}
	first := records[0]
	if first.Country != "es" || first.ObligationNumber != 672 || first.ReportingYear != 2021 {
		t.Errorf("unexpected envelope fields: %+v", first)
	}
	if first.Envelope != envURL {
		t.Errorf("envelope = %q", first.Envelope)
	}
	if first.ManualFeedback != "Automatic QA result" || first.FeedbackStatus != "BLOCKER" {
		t.Errorf("unexpected feedback fields: %+v", first)
	}
	if first.PostingDate != "2022-03-01T10:00:00Z" {
		t.Errorf("posting date = %q", first.PostingDate)
	}
	if first.ErrorCode != "BLOCKER01" || first.ErrorLevel != "error" {
		t.Errorf("unexpected check fields: %+v", first)
	}
	if records[1].ErrorCode != "W020" || records[1].ErrorLevel != "warning" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestQAReportSkipsEnvelopesWithoutCheckRows(t *testing.T) {
	quiet := "https://cdr.example/es/envquiet"
	noisy := "https://cdr.example/it/envnoisy"
	feedbacks := &fakeFeedbacks{
		envelopes: map[string]domain.Envelope{
			// No feedbacks at all.
			quiet: {URL: quiet, CountryCode: "es", Obligations: []int{672}},
			// A feedback whose attachment parses to zero rows.
			noisy: {
				URL: noisy, CountryCode: "it", Obligations: []int{672},
				Feedbacks: []domain.Feedback{{
					Title:       "empty result",
					Attachments: []domain.Attachment{{URL: noisy + "/qa.html"}},
				}},
			},
		},
		attachments: map[string][]byte{
			noisy + "/qa.html": []byte("<html><body><p>all fine</p></body></html>"),
		},
	}
	lists := &fakeLists{rows: []domain.ListRow{
		{"CDREnvelope": quiet},
		{"CDREnvelope": noisy},
	}}

	uc := NewQAReport(feedbacks, lists, &fakeReporter{})
	records, err := uc.Execute(context.Background(), QAReportRequest{
		Path:   "envelopes.csv",
		Column: "CDREnvelope",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no rows, got %+v", records)
	}
}

func TestQAReportContinuesAfterFetchErrors(t *testing.T) {
	good := "https://cdr.example/es/envgood"
	missing := "https://cdr.example/it/envmissing"
	feedbacks := &fakeFeedbacks{
		envelopes: map[string]domain.Envelope{
			good: {
				URL: good, CountryCode: "es", Obligations: []int{672},
				Feedbacks: []domain.Feedback{{
					Title:       "Automatic QA result",
					Attachments: []domain.Attachment{{URL: good + "/qa.html"}},
				}},
			},
		},
		attachments: map[string][]byte{
			good + "/qa.html": []byte(qaResultPage),
		},
	}
	lists := &fakeLists{rows: []domain.ListRow{
		{"CDREnvelope": missing},
		{"CDREnvelope": good},
	}}
	reporter := &fakeReporter{}

	uc := NewQAReport(feedbacks, lists, reporter)
	records, err := uc.Execute(context.Background(), QAReportRequest{
		Path:   "envelopes.csv",
		Column: "CDREnvelope",
	})
	if err != nil {
		t.Fatalf("a missing envelope must not abort the run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected rows from the reachable envelope, got %d", len(records))
	}
	if len(reporter.warns) != 1 {
		t.Errorf("expected one warning, got %v", reporter.warns)
	}
}
