package csvlist

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Historical column names. Downstream commands look envelopes up under
// these headers, so they survive the source/target renaming.
var cloneHeader = []string{
	"Obligation", "Country", "ReportingYear", "CDREnvelope", "CDRTESTEnvelope", "FileCount",
}

var feedbackHeader = []string{
	"Country", "ObligationNumber", "Envelope", "FeedbackMessage", "FeedbackStatus",
	"ReportingYear", "ManualFeedback", "PostingDate", "ErrorCode", "ErrorLevel", "ErrorMessage",
}

// WriteCloneRecords writes a clone report consumable by the delete and QA
// commands.
func WriteCloneRecords(w io.Writer, records []domain.CloneRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cloneHeader); err != nil {
		return writeErr(err)
	}
	for _, r := range records {
		rec := []string{
			strconv.Itoa(r.Obligation),
			r.Country,
			strconv.Itoa(r.ReportingYear),
			r.SourceEnvelope,
			r.TargetEnvelope,
			strconv.Itoa(r.FileCount),
		}
		if err := cw.Write(rec); err != nil {
			return writeErr(err)
		}
	}
	cw.Flush()
	return writeErr(cw.Error())
}

// WriteFeedbackRecords writes the QA error report. The report uses ';' as
// delimiter because check messages routinely contain commas.
func WriteFeedbackRecords(w io.Writer, records []domain.FeedbackRecord) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(feedbackHeader); err != nil {
		return writeErr(err)
	}
	for _, r := range records {
		rec := []string{
			r.Country,
			strconv.Itoa(r.ObligationNumber),
			r.Envelope,
			r.FeedbackMessage,
			r.FeedbackStatus,
			strconv.Itoa(r.ReportingYear),
			r.ManualFeedback,
			r.PostingDate,
			r.ErrorCode,
			r.ErrorLevel,
			r.ErrorMessage,
		}
		if err := cw.Write(rec); err != nil {
			return writeErr(err)
		}
	}
	cw.Flush()
	return writeErr(cw.Error())
}

func writeErr(err error) error {
	if err == nil {
		return nil
	}
	return &domain.OpError{
		Op:   "csvlist.write",
		Kind: domain.KindExecution,
		Err:  err,
	}
}
