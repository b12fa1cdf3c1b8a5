package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func newCloneFixture() (*fakeFinder, *fakeManager, *fakeWorkflow, *fakeTransfer, *fakeReporter, *fakeSessions) {
	return &fakeFinder{}, &fakeManager{}, &fakeWorkflow{}, &fakeTransfer{}, &fakeReporter{}, &fakeSessions{}
}

func TestCloneEnvelopesCopiesFiles(t *testing.T) {
	finder, manager, workflow, transfer, reporter, sessions := newCloneFixture()
	finder.envelopes = []domain.Envelope{{
		URL:             "https://cdr.example/es/eu/aqd/d/envx1",
		Title:           "AQD dataflow D",
		CountryCode:     "es",
		PeriodStartYear: 2021,
		StatusDate:      time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Files: []domain.File{
			{URL: "https://cdr.example/es/eu/aqd/d/envx1/data.xml"},
			{URL: "https://cdr.example/es/eu/aqd/d/envx1/meta.xml"},
		},
	}}

	uc := NewCloneEnvelopes(finder, manager, workflow, transfer, reporter, sessions)
	records, err := uc.Execute(context.Background(), CloneRequest{
		Obligation:       listObligation(t, "aqd:d"),
		ReportingYear:    2021,
		Countries:        []string{"es"},
		WorkDir:          t.TempDir(),
		TargetRepository: "CDRTEST",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(manager.created) != 1 {
		t.Fatalf("expected 1 envelope created, got %d", len(manager.created))
	}
	create := manager.created[0]
	if create.country != "es" {
		t.Errorf("created under country %q, want es", create.country)
	}
	wantTitle := "AQD dataflow D [copy of https://cdr.example/es/eu/aqd/d/envx1]"
	if create.meta.Title != wantTitle {
		t.Errorf("clone title = %q, want %q", create.meta.Title, wantTitle)
	}
	if create.meta.Year != 2021 {
		t.Errorf("clone year = %d, want 2021", create.meta.Year)
	}

	if len(workflow.activated) != 1 {
		t.Fatalf("expected the new envelope to be activated once, got %d", len(workflow.activated))
	}
	if workflow.activated[0].id != 0 {
		t.Errorf("fresh envelopes must activate workitem 0, got %d", workflow.activated[0].id)
	}

	if len(transfer.downloads) != 2 || len(transfer.uploads) != 2 {
		t.Fatalf("expected 2 downloads and 2 uploads, got %d and %d",
			len(transfer.downloads), len(transfer.uploads))
	}
	if got := filepath.Base(transfer.uploads[0].path); got != "data.xml" {
		t.Errorf("first upload path = %q, want data.xml", got)
	}
	if transfer.uploads[0].envelopeURL != workflow.activated[0].url {
		t.Errorf("files uploaded to %q, activated envelope is %q",
			transfer.uploads[0].envelopeURL, workflow.activated[0].url)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 clone record, got %d", len(records))
	}
	rec := records[0]
	if rec.Obligation != 672 || rec.Country != "es" || rec.ReportingYear != 2021 {
		t.Errorf("unexpected record fields: %+v", rec)
	}
	if rec.SourceEnvelope != "https://cdr.example/es/eu/aqd/d/envx1" {
		t.Errorf("source envelope = %q", rec.SourceEnvelope)
	}
	if rec.TargetEnvelope == "" || rec.TargetEnvelope == rec.SourceEnvelope {
		t.Errorf("target envelope = %q", rec.TargetEnvelope)
	}
	if rec.FileCount != 2 {
		t.Errorf("file count = %d, want 2", rec.FileCount)
	}

	if len(sessions.saved) != 1 {
		t.Fatalf("expected the session to be saved, got %d", len(sessions.saved))
	}
	session := sessions.saved[0]
	if session.Command != "clone" || session.Repository != "CDRTEST" {
		t.Errorf("session = %q on %q", session.Command, session.Repository)
	}
	if len(session.Outcomes) != 1 || session.Outcomes[0].Action != domain.OutcomeCloned {
		t.Errorf("unexpected session outcomes: %+v", session.Outcomes)
	}
}

func TestCloneEnvelopesSkipsEnvelopesWithoutFiles(t *testing.T) {
	finder, manager, workflow, transfer, reporter, sessions := newCloneFixture()
	finder.envelopes = []domain.Envelope{{
		URL:             "https://cdr.example/es/eu/aqd/d/envempty",
		CountryCode:     "es",
		PeriodStartYear: 2021,
	}}

	uc := NewCloneEnvelopes(finder, manager, workflow, transfer, reporter, sessions)
	records, err := uc.Execute(context.Background(), CloneRequest{
		Obligation:    listObligation(t, "aqd:d"),
		ReportingYear: 2021,
		WorkDir:       t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(manager.created) != 0 {
		t.Errorf("empty envelopes must not be created, got %d creations", len(manager.created))
	}

	if len(sessions.saved) != 1 {
		t.Fatalf("expected the session to be saved")
	}
	outcomes := sessions.saved[0].Outcomes
	if len(outcomes) != 1 || outcomes[0].Action != domain.OutcomeSkipped || outcomes[0].Detail != "no files" {
		t.Errorf("unexpected outcomes: %+v", outcomes)
	}
}

func TestCloneEnvelopesContinuesAfterFailure(t *testing.T) {
	finder, manager, workflow, transfer, reporter, sessions := newCloneFixture()
	finder.envelopes = []domain.Envelope{
		{
			URL: "https://cdr.example/es/eu/aqd/d/env1", CountryCode: "es", PeriodStartYear: 2021,
			Files: []domain.File{{URL: "https://cdr.example/es/eu/aqd/d/env1/a.xml"}},
		},
		{
			URL: "https://cdr.example/it/eu/aqd/d/env1", CountryCode: "it", PeriodStartYear: 2021,
			Files: []domain.File{{URL: "https://cdr.example/it/eu/aqd/d/env1/b.xml"}},
		},
	}
	manager.createErr = errors.New("creation refused")

	uc := NewCloneEnvelopes(finder, manager, workflow, transfer, reporter, sessions)
	records, err := uc.Execute(context.Background(), CloneRequest{
		Obligation:    listObligation(t, "aqd:d"),
		ReportingYear: 2021,
		WorkDir:       t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failures must not abort the run: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(reporter.warns) != 2 {
		t.Errorf("expected a warning per failed envelope, got %v", reporter.warns)
	}

	outcomes := sessions.saved[0].Outcomes
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Action != domain.OutcomeFailed {
			t.Errorf("outcome for %s = %q, want failed", o.Envelope, o.Action)
		}
		if !strings.Contains(o.Detail, "creation refused") {
			t.Errorf("outcome detail %q should carry the error", o.Detail)
		}
	}
}
