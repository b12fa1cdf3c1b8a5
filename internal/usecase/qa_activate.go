package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// ActivateQA launches the automatic QA on the envelopes named in a list
// file. Envelopes already in QA are counted against the concurrency cap;
// once the observed QA load reaches the cap the run stops.
type ActivateQA struct {
	workflow ports.WorkflowDriver
	lists    ports.ListSource
	reporter ports.Reporter
	sessions ports.SessionStore
}

func NewActivateQA(
	workflow ports.WorkflowDriver,
	lists ports.ListSource,
	reporter ports.Reporter,
	sessions ports.SessionStore,
) *ActivateQA {
	return &ActivateQA{
		workflow: workflow,
		lists:    lists,
		reporter: reporter,
		sessions: sessions,
	}
}

type ActivateQARequest struct {
	Path   string
	Column string
	// MaxActivations bounds how many envelopes may sit in QA at once.
	MaxActivations int
	// After skips envelopes whose latest completed QA ran on or after the
	// cutoff; zero disables the check.
	After      time.Time
	Repository string
}

// ActivateQASummary counts how the run ended per envelope.
type ActivateQASummary struct {
	Activated int
	InQA      int
	Skipped   int
	Failed    int
}

func (uc *ActivateQA) Execute(ctx context.Context, req ActivateQARequest) (ActivateQASummary, error) {
	rows, err := uc.lists.Rows(req.Path)
	if err != nil {
		return ActivateQASummary{}, err
	}
	urls, err := domain.Column(rows, req.Column)
	if err != nil {
		return ActivateQASummary{}, err
	}

	session := newSession("activate-qa", req.Repository, map[string]string{
		"path":            req.Path,
		"column":          req.Column,
		"max_activations": strconv.Itoa(req.MaxActivations),
	})

	var sum ActivateQASummary
	inQA := 0
	for idx, envelopeURL := range urls {
		if inQA == req.MaxActivations {
			uc.reporter.Stepf("reached maximum number of activations %d", req.MaxActivations)
			break
		}

		env, err := uc.workflow.History(ctx, envelopeURL)
		if err != nil {
			uc.reporter.Warnf("reading history failed: %v", err)
			sum.Failed++
			recordOutcome(session, envelopeURL, domain.OutcomeFailed, err.Error())
			continue
		}
		if len(env.History) == 0 {
			uc.reporter.Warnf("envelope %s has no workflow history", envelopeURL)
			sum.Failed++
			recordOutcome(session, envelopeURL, domain.OutcomeFailed, "no workflow history")
			continue
		}

		obligation := 0
		if len(env.Obligations) > 0 {
			obligation = env.Obligations[0]
		}
		current := env.History[len(env.History)-1]
		uc.reporter.Stepf("envelope %d of %d %d %s %d %s activity: %s status: %s",
			idx+1, len(urls), obligation, env.CountryCode, env.PeriodStartYear,
			envelopeURL, current.ActivityID, current.ActivityStatus)

		if current.QAInProgress() {
			uc.reporter.Stepf("skipping envelope already running QA since %s",
				current.Modified.Format(time.RFC3339))
			inQA++
			sum.InQA++
			recordOutcome(session, envelopeURL, domain.OutcomeSkipped, "QA in progress")
			continue
		}

		if !req.After.IsZero() {
			if latest, ok := domain.LatestCompletedQA(env.History); ok && !latest.Before(req.After) {
				uc.reporter.Stepf("skipping envelope, QA already ran on %s",
					latest.Format("02-01-2006"))
				sum.Skipped++
				recordOutcome(session, envelopeURL, domain.OutcomeSkipped,
					"QA completed "+latest.Format(time.RFC3339))
				continue
			}
		}

		if current.IsIdleDraft() {
			uc.reporter.Stepf("activating draft")
		}
		uc.reporter.Stepf("activating QA for envelope %d of %d %s", idx+1, len(urls), envelopeURL)

		if err := uc.workflow.Activate(ctx, envelopeURL, current.ID); err != nil {
			uc.reporter.Warnf("activating workitem failed: %v", err)
			sum.Failed++
			recordOutcome(session, envelopeURL, domain.OutcomeFailed, err.Error())
			continue
		}
		if err := uc.workflow.StartQA(ctx, envelopeURL, current.ID); err != nil {
			uc.reporter.Warnf("starting QA failed: %v", err)
			sum.Failed++
			recordOutcome(session, envelopeURL, domain.OutcomeFailed, err.Error())
			continue
		}
		sum.Activated++
		recordOutcome(session, envelopeURL, domain.OutcomeActivated, "")
	}

	saveSession(uc.sessions, uc.reporter, session, nil)
	return sum, nil
}
