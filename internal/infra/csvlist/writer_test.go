package csvlist

import (
	"strings"
	"testing"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func TestWriteCloneRecords(t *testing.T) {
	var buf strings.Builder
	err := WriteCloneRecords(&buf, []domain.CloneRecord{
		{
			Obligation:     672,
			Country:        "es",
			ReportingYear:  2021,
			SourceEnvelope: "https://cdr.example/es/env1",
			TargetEnvelope: "https://cdrtest.example/es/env1",
			FileCount:      3,
		},
	})
	if err != nil {
		t.Fatalf("WriteCloneRecords: %v", err)
	}

	want := "Obligation,Country,ReportingYear,CDREnvelope,CDRTESTEnvelope,FileCount\n" +
		"672,es,2021,https://cdr.example/es/env1,https://cdrtest.example/es/env1,3\n"
	if buf.String() != want {
		t.Fatalf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCloneReportRoundTripsThroughSource(t *testing.T) {
	var buf strings.Builder
	err := WriteCloneRecords(&buf, []domain.CloneRecord{
		{Obligation: 672, Country: "es", ReportingYear: 2021,
			SourceEnvelope: "https://cdr.example/es/env1",
			TargetEnvelope: "https://cdrtest.example/es/env1", FileCount: 1},
	})
	if err != nil {
		t.Fatalf("WriteCloneRecords: %v", err)
	}

	src := &Source{Stdin: strings.NewReader(buf.String())}
	rows, err := src.Rows("-")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	urls, err := domain.Column(rows, "CDRTESTEnvelope")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://cdrtest.example/es/env1" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestWriteFeedbackRecordsUsesSemicolons(t *testing.T) {
	var buf strings.Builder
	err := WriteFeedbackRecords(&buf, []domain.FeedbackRecord{
		{
			Country:          "es",
			ObligationNumber: 672,
			Envelope:         "https://cdr.example/es/env1",
			FeedbackMessage:  "2 blockers, 1 warning",
			FeedbackStatus:   "BLOCKER",
			ReportingYear:    2021,
			ManualFeedback:   "Automatic QA result",
			PostingDate:      "2022-03-01T10:00:00Z",
			ErrorCode:        "BLOCKER01",
			ErrorLevel:       "error",
			ErrorMessage:     "Missing pollutant code",
		},
	})
	if err != nil {
		t.Fatalf("WriteFeedbackRecords: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if lines[0] != "Country;ObligationNumber;Envelope;FeedbackMessage;FeedbackStatus;"+
		"ReportingYear;ManualFeedback;PostingDate;ErrorCode;ErrorLevel;ErrorMessage" {
		t.Fatalf("header = %q", lines[0])
	}
	// The comma-bearing message must not be quoted under the ';' delimiter.
	if !strings.Contains(lines[1], ";2 blockers, 1 warning;") {
		t.Fatalf("row = %q", lines[1])
	}
}
