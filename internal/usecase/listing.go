package usecase

import (
	"context"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// ListEnvelopes queries envelopes for an obligation across one or more
// countries and applies the client-side filters the search API does not
// offer: reporting-year matching and latest-per-country reduction.
type ListEnvelopes struct {
	finder ports.EnvelopeFinder
}

func NewListEnvelopes(f ports.EnvelopeFinder) *ListEnvelopes {
	return &ListEnvelopes{finder: f}
}

type ListRequest struct {
	Obligation domain.Obligation
	// Countries to include; empty means no country filter.
	Countries []string
	// ReportingYear filters on periodStartYear; zero disables the filter.
	ReportingYear int
	// Released: true = released only, false = drafts only, nil = both.
	Released           *bool
	ReportingDateStart time.Time
	LatestOnly         bool
	Fields             []string
}

func (uc *ListEnvelopes) Execute(ctx context.Context, req ListRequest) ([]domain.Envelope, error) {
	countries := req.Countries
	if len(countries) == 0 {
		countries = []string{""}
	}

	// One query per country; the API has no multi-country selector.
	var envs []domain.Envelope
	for _, country := range countries {
		res, err := uc.finder.Search(ctx, domain.EnvelopeQuery{
			Obligation:         req.Obligation.Number,
			CountryCode:        country,
			Released:           req.Released,
			ReportingDateStart: req.ReportingDateStart,
			Fields:             req.Fields,
		})
		if err != nil {
			return nil, err
		}
		envs = append(envs, res...)
	}

	if req.ReportingYear != 0 {
		envs = domain.FilterByYear(envs, req.ReportingYear)
	}
	if req.LatestOnly {
		envs = domain.LatestByCountry(envs)
	}
	return envs, nil
}
