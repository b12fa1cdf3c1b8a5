package domain

// CloneRecord is one row of the report produced by cloning envelopes. CSV
// output keeps the historical column names (CDREnvelope, CDRTESTEnvelope) so
// the file feeds the delete and QA commands unchanged.
type CloneRecord struct {
	Obligation     int
	Country        string
	ReportingYear  int
	SourceEnvelope string
	TargetEnvelope string
	FileCount      int
}

// QAError is a single check result scraped from a QA feedback attachment.
type QAError struct {
	Code    string
	Level   string
	Message string
}

// FeedbackRecord is one flattened row of the QA report: one line per QA
// error with the feedback context repeated.
type FeedbackRecord struct {
	Country          string
	ObligationNumber int
	Envelope         string
	FeedbackMessage  string
	FeedbackStatus   string
	ReportingYear    int
	ManualFeedback   string
	PostingDate      string
	ErrorCode        string
	ErrorLevel       string
	ErrorMessage     string
}
