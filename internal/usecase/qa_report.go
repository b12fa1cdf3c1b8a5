package usecase

import (
	"context"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
	"github.com/libertil/eea-cdrtools/internal/usecase/qaparse"
)

// QAReport collects the QA results for the envelopes named in a list file:
// every feedback's attachments are fetched and scraped, and each check
// result becomes one flattened report row. Envelopes whose feedbacks carry
// no parseable check rows produce no output.
type QAReport struct {
	feedbacks ports.FeedbackReader
	lists     ports.ListSource
	reporter  ports.Reporter
}

func NewQAReport(feedbacks ports.FeedbackReader, lists ports.ListSource, reporter ports.Reporter) *QAReport {
	return &QAReport{feedbacks: feedbacks, lists: lists, reporter: reporter}
}

type QAReportRequest struct {
	Path   string
	Column string
}

func (uc *QAReport) Execute(ctx context.Context, req QAReportRequest) ([]domain.FeedbackRecord, error) {
	rows, err := uc.lists.Rows(req.Path)
	if err != nil {
		return nil, err
	}
	urls, err := domain.Column(rows, req.Column)
	if err != nil {
		return nil, err
	}

	var records []domain.FeedbackRecord
	for idx, envelopeURL := range urls {
		uc.reporter.Stepf("processing envelope %d of %d %s", idx+1, len(urls), envelopeURL)

		env, err := uc.feedbacks.Feedbacks(ctx, envelopeURL)
		if err != nil {
			uc.reporter.Warnf("reading feedbacks failed: %v", err)
			continue
		}

		obligation := 0
		if len(env.Obligations) > 0 {
			obligation = env.Obligations[0]
		}

		if len(env.Feedbacks) == 0 {
			uc.reporter.Stepf("no feedback found for %d %s %d",
				obligation, env.CountryCode, env.PeriodStartYear)
			continue
		}

		for fbIdx, fb := range env.Feedbacks {
			uc.reporter.Stepf("feedback %d %s", fbIdx+1, fb.Title)

			var errs []domain.QAError
			for atIdx, at := range fb.Attachments {
				body, err := uc.feedbacks.Attachment(ctx, at.URL)
				if err != nil {
					uc.reporter.Warnf("fetching attachment failed: %v", err)
					continue
				}
				found, err := qaparse.Parse(body)
				if err != nil {
					uc.reporter.Warnf("parsing attachment failed: %v", err)
					continue
				}
				uc.reporter.Stepf("attachment %d: found %d rows", atIdx+1, len(found))
				errs = append(errs, found...)
			}

			// One report row per check result; feedbacks without check rows
			// contribute nothing.
			for _, qaErr := range errs {
				records = append(records, domain.FeedbackRecord{
					Country:          env.CountryCode,
					ObligationNumber: obligation,
					Envelope:         envelopeURL,
					FeedbackMessage:  fb.FeedbackMessage,
					FeedbackStatus:   fb.FeedbackStatus,
					ReportingYear:    env.PeriodStartYear,
					ManualFeedback:   fb.Title,
					PostingDate:      fb.PostingDate,
					ErrorCode:        qaErr.Code,
					ErrorLevel:       qaErr.Level,
					ErrorMessage:     qaErr.Message,
				})
			}
		}
	}
	return records, nil
}
