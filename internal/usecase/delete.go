package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// DeleteSummary counts how a delete run ended per envelope.
type DeleteSummary struct {
	Deleted int
	Skipped int
	Failed  int
}

// DeleteListed removes the envelopes named in a list file column, asking
// for confirmation one by one. The default column is the clone report's
// target envelope column.
type DeleteListed struct {
	lists    ports.ListSource
	manager  ports.EnvelopeManager
	confirm  ports.Confirmer
	reporter ports.Reporter
	sessions ports.SessionStore
}

func NewDeleteListed(
	lists ports.ListSource,
	manager ports.EnvelopeManager,
	confirm ports.Confirmer,
	reporter ports.Reporter,
	sessions ports.SessionStore,
) *DeleteListed {
	return &DeleteListed{
		lists:    lists,
		manager:  manager,
		confirm:  confirm,
		reporter: reporter,
		sessions: sessions,
	}
}

type DeleteListedRequest struct {
	Path       string
	Column     string
	Repository string
}

func (uc *DeleteListed) Execute(ctx context.Context, req DeleteListedRequest) (DeleteSummary, error) {
	rows, err := uc.lists.Rows(req.Path)
	if err != nil {
		return DeleteSummary{}, err
	}
	uc.reporter.Stepf("found %d envelopes in %s", len(rows), req.Path)

	// Validate the column before touching anything.
	urls, err := domain.Column(rows, req.Column)
	if err != nil {
		return DeleteSummary{}, err
	}

	session := newSession("delete", req.Repository, map[string]string{
		"path":   req.Path,
		"column": req.Column,
	})

	var sum DeleteSummary
	for idx, row := range rows {
		url := urls[idx]
		uc.reporter.Stepf("deleting envelope %d of %d country %s year %s at %s",
			idx+1, len(rows), row["Country"], row["ReportingYear"], url)

		if !uc.confirm.Confirm("Proceed?") {
			sum.Skipped++
			recordOutcome(session, url, domain.OutcomeSkipped, "not confirmed")
			continue
		}
		if err := uc.manager.Delete(ctx, url); err != nil {
			uc.reporter.Warnf("delete failed: %v", err)
			sum.Failed++
			recordOutcome(session, url, domain.OutcomeFailed, err.Error())
			continue
		}
		sum.Deleted++
		recordOutcome(session, url, domain.OutcomeDeleted, "")
	}

	saveSession(uc.sessions, uc.reporter, session, nil)
	return sum, nil
}

// BatchDelete removes draft envelopes matched by a search instead of a
// list file. Released envelopes are never touched.
type BatchDelete struct {
	finder   ports.EnvelopeFinder
	manager  ports.EnvelopeManager
	confirm  ports.Confirmer
	reporter ports.Reporter
	sessions ports.SessionStore
}

func NewBatchDelete(
	finder ports.EnvelopeFinder,
	manager ports.EnvelopeManager,
	confirm ports.Confirmer,
	reporter ports.Reporter,
	sessions ports.SessionStore,
) *BatchDelete {
	return &BatchDelete{
		finder:   finder,
		manager:  manager,
		confirm:  confirm,
		reporter: reporter,
		sessions: sessions,
	}
}

type BatchDeleteRequest struct {
	Obligation    domain.Obligation
	ReportingYear int
	Countries     []string
	// ModifiedAfter keeps only envelopes whose status changed after the
	// cutoff; zero disables the filter.
	ModifiedAfter time.Time
	Repository    string
}

func (uc *BatchDelete) Execute(ctx context.Context, req BatchDeleteRequest) (DeleteSummary, error) {
	uc.reporter.Stepf("searching draft envelopes for obligation %d, reporting year %d",
		req.Obligation.Number, req.ReportingYear)

	drafts := false
	envs, err := NewListEnvelopes(uc.finder).Execute(ctx, ListRequest{
		Obligation:    req.Obligation,
		Countries:     req.Countries,
		ReportingYear: req.ReportingYear,
		Released:      &drafts,
	})
	if err != nil {
		return DeleteSummary{}, err
	}
	uc.reporter.Stepf("found %d envelopes", len(envs))

	if !req.ModifiedAfter.IsZero() {
		uc.reporter.Stepf("filtering by modification date")
		envs = domain.FilterStatusAfter(envs, req.ModifiedAfter)
		uc.reporter.Stepf("left %d envelopes", len(envs))
	}

	session := newSession("batch-delete", req.Repository, map[string]string{
		"obligation":     req.Obligation.Code,
		"reporting_year": strconv.Itoa(req.ReportingYear),
		"countries":      strings.Join(req.Countries, ","),
	})

	var sum DeleteSummary
	for idx, env := range envs {
		uc.reporter.Stepf("deleting envelope %d of %d country %s year %d modified %s %s",
			idx+1, len(envs), env.CountryCode, env.PeriodStartYear,
			env.StatusDate.Format(time.RFC3339), env.URL)

		if !uc.confirm.Confirm("Proceed?") {
			sum.Skipped++
			recordOutcome(session, env.URL, domain.OutcomeSkipped, "not confirmed")
			continue
		}
		if err := uc.manager.Delete(ctx, env.URL); err != nil {
			uc.reporter.Warnf("delete failed: %v", err)
			sum.Failed++
			recordOutcome(session, env.URL, domain.OutcomeFailed, err.Error())
			continue
		}
		sum.Deleted++
		recordOutcome(session, env.URL, domain.OutcomeDeleted, "")
	}

	saveSession(uc.sessions, uc.reporter, session, nil)
	return sum, nil
}
