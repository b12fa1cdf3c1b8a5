package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// CloneEnvelopes copies envelopes between repository instances, typically
// CDR to CDRTEST: for each source envelope it creates a counterpart under
// the same obligation and country, activates its draft workitem and carries
// every file over. Envelopes without files are skipped.
type CloneEnvelopes struct {
	finder   ports.EnvelopeFinder
	manager  ports.EnvelopeManager
	workflow ports.WorkflowDriver
	transfer ports.FileTransfer
	reporter ports.Reporter
	sessions ports.SessionStore
}

func NewCloneEnvelopes(
	finder ports.EnvelopeFinder,
	manager ports.EnvelopeManager,
	workflow ports.WorkflowDriver,
	transfer ports.FileTransfer,
	reporter ports.Reporter,
	sessions ports.SessionStore,
) *CloneEnvelopes {
	return &CloneEnvelopes{
		finder:   finder,
		manager:  manager,
		workflow: workflow,
		transfer: transfer,
		reporter: reporter,
		sessions: sessions,
	}
}

type CloneRequest struct {
	Obligation    domain.Obligation
	ReportingYear int
	Countries     []string
	// LatestOnly keeps only the most recent envelope per country.
	LatestOnly bool
	// Released selects released source envelopes; false selects drafts.
	Released bool
	// WorkDir hosts the transfer scratch space; empty means the system
	// temp directory.
	WorkDir string
	// TargetRepository is recorded in the session artifact.
	TargetRepository string
}

func (uc *CloneEnvelopes) Execute(ctx context.Context, req CloneRequest) ([]domain.CloneRecord, error) {
	uc.reporter.Stepf("extracting envelopes metadata for obligation %d, reporting year %d",
		req.Obligation.Number, req.ReportingYear)
	if len(req.Countries) > 0 {
		uc.reporter.Stepf("countries: %s", strings.Join(req.Countries, ", "))
	}

	released := req.Released
	envs, err := NewListEnvelopes(uc.finder).Execute(ctx, ListRequest{
		Obligation:    req.Obligation,
		Countries:     req.Countries,
		ReportingYear: req.ReportingYear,
		Released:      &released,
	})
	if err != nil {
		return nil, err
	}
	uc.reporter.Stepf("found %d envelopes", len(envs))
	if len(envs) == 0 {
		return nil, nil
	}
	if req.LatestOnly {
		uc.reporter.Stepf("keeping most recently modified envelope per country")
		envs = domain.LatestByCountry(envs)
		uc.reporter.Stepf("left %d envelopes", len(envs))
	}

	workDir, err := os.MkdirTemp(req.WorkDir, "cdrtools-clone-")
	if err != nil {
		return nil, &domain.OpError{Op: "clone", Kind: domain.KindExecution, Err: err}
	}
	defer os.RemoveAll(workDir)

	session := newSession("clone", req.TargetRepository, map[string]string{
		"obligation":     req.Obligation.Code,
		"reporting_year": strconv.Itoa(req.ReportingYear),
		"countries":      strings.Join(req.Countries, ","),
	})

	var records []domain.CloneRecord
	for idx, env := range envs {
		uc.reporter.Stepf("processing envelope %d of %d %s", idx+1, len(envs), env.URL)

		if len(env.Files) == 0 {
			uc.reporter.Stepf("no files in the envelope, skipping")
			recordOutcome(session, env.URL, domain.OutcomeSkipped, "no files")
			continue
		}

		record, err := uc.cloneOne(ctx, env, req, workDir)
		if err != nil {
			uc.reporter.Warnf("cloning %s failed: %v", env.URL, err)
			recordOutcome(session, env.URL, domain.OutcomeFailed, err.Error())
			continue
		}
		recordOutcome(session, env.URL, domain.OutcomeCloned, record.TargetEnvelope)
		records = append(records, record)
	}

	saveSession(uc.sessions, uc.reporter, session, nil)
	return records, nil
}

func (uc *CloneEnvelopes) cloneOne(ctx context.Context, env domain.Envelope, req CloneRequest, workDir string) (domain.CloneRecord, error) {
	title := fmt.Sprintf("%s [copy of %s]", env.Title, env.URL)
	uc.reporter.Stepf("creating cloned envelope %s", title)

	created, err := uc.manager.Create(ctx, env.CountryCode, req.Obligation, domain.EnvelopeMeta{
		Title: title,
		Year:  env.PeriodStartYear,
	})
	if err != nil {
		return domain.CloneRecord{}, err
	}

	if err := uc.workflow.Activate(ctx, created.URL, 0); err != nil {
		return domain.CloneRecord{}, err
	}

	for idx, file := range env.Files {
		name := file.Name()
		uc.reporter.Stepf("processing file %d of %d %s", idx+1, len(env.Files), name)

		if _, err := uc.transfer.Download(ctx, file.URL, workDir, name); err != nil {
			return domain.CloneRecord{}, err
		}
		local := filepath.Join(workDir, name)
		if err := uc.transfer.Upload(ctx, created.URL, local); err != nil {
			return domain.CloneRecord{}, err
		}
		os.Remove(local)
	}

	return domain.CloneRecord{
		Obligation:     req.Obligation.Number,
		Country:        env.CountryCode,
		ReportingYear:  req.ReportingYear,
		SourceEnvelope: env.URL,
		TargetEnvelope: created.URL,
		FileCount:      len(env.Files),
	}, nil
}
