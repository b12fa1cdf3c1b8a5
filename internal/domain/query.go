package domain

import "time"

// DefaultEnvelopeFields is the field projection requested from the search
// API when the caller does not narrow it.
var DefaultEnvelopeFields = []string{
	"url", "title", "description", "countryCode",
	"isReleased", "reportingDate", "modifiedDate",
	"periodStartYear", "periodEndYear", "periodDescription",
	"isBlockedByQCError", "status", "statusDate", "creator",
	"hasUnknownQC", "files", "obligations",
}

// EnvelopeQuery narrows a search against the envelope API. Either Obligation
// or URL selects the envelopes; the remaining fields filter the result
// server-side. A nil Released means both drafts and released envelopes.
type EnvelopeQuery struct {
	Obligation         int
	URL                string
	CountryCode        string
	Released           *bool
	ReportingDateStart time.Time
	Fields             []string
}

// EnvelopeMeta carries the descriptive properties for a new envelope.
// Zero years are sent to the repository as empty values.
type EnvelopeMeta struct {
	Title       string
	Description string
	Year        int
	EndYear     int
	PartOfYear  string
	Locality    string
}
