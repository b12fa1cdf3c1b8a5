package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func listObligation(t *testing.T, code string) domain.Obligation {
	t.Helper()
	ob, err := domain.ObligationByCode(code)
	if err != nil {
		t.Fatalf("ObligationByCode(%q): %v", code, err)
	}
	return ob
}

func TestListEnvelopesQueriesEachCountry(t *testing.T) {
	finder := &fakeFinder{envelopes: []domain.Envelope{
		{URL: "https://cdr.example/es/env1", CountryCode: "es", PeriodStartYear: 2021},
		{URL: "https://cdr.example/it/env1", CountryCode: "it", PeriodStartYear: 2021},
		{URL: "https://cdr.example/fr/env1", CountryCode: "fr", PeriodStartYear: 2021},
	}}

	released := true
	got, err := NewListEnvelopes(finder).Execute(context.Background(), ListRequest{
		Obligation: listObligation(t, "aqd:d"),
		Countries:  []string{"es", "it"},
		Released:   &released,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(finder.queries) != 2 {
		t.Fatalf("expected one query per country, got %d", len(finder.queries))
	}
	for i, country := range []string{"es", "it"} {
		q := finder.queries[i]
		if q.Obligation != 672 {
			t.Errorf("query %d obligation = %d, want 672", i, q.Obligation)
		}
		if q.CountryCode != country {
			t.Errorf("query %d country = %q, want %q", i, q.CountryCode, country)
		}
		if q.Released == nil || !*q.Released {
			t.Errorf("query %d should ask for released envelopes", i)
		}
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(got))
	}
	if got[0].CountryCode != "es" || got[1].CountryCode != "it" {
		t.Errorf("unexpected countries in result: %q, %q", got[0].CountryCode, got[1].CountryCode)
	}
}

func TestListEnvelopesWithoutCountriesQueriesOnce(t *testing.T) {
	finder := &fakeFinder{envelopes: []domain.Envelope{
		{URL: "https://cdr.example/es/env1", CountryCode: "es"},
	}}

	got, err := NewListEnvelopes(finder).Execute(context.Background(), ListRequest{
		Obligation: listObligation(t, "aqd:b"),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(finder.queries) != 1 {
		t.Fatalf("expected a single query, got %d", len(finder.queries))
	}
	if finder.queries[0].CountryCode != "" {
		t.Errorf("country filter = %q, want empty", finder.queries[0].CountryCode)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 envelope, got %d", len(got))
	}
}

func TestListEnvelopesFiltersYearAndKeepsLatest(t *testing.T) {
	finder := &fakeFinder{envelopes: []domain.Envelope{
		{URL: "https://cdr.example/es/old", CountryCode: "es", PeriodStartYear: 2021,
			StatusDate: time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)},
		{URL: "https://cdr.example/es/new", CountryCode: "es", PeriodStartYear: 2021,
			StatusDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)},
		{URL: "https://cdr.example/es/other-year", CountryCode: "es", PeriodStartYear: 2020,
			StatusDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)},
	}}

	got, err := NewListEnvelopes(finder).Execute(context.Background(), ListRequest{
		Obligation:    listObligation(t, "aqd:d"),
		Countries:     []string{"es"},
		ReportingYear: 2021,
		LatestOnly:    true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 envelope after filtering, got %d", len(got))
	}
	if got[0].URL != "https://cdr.example/es/new" {
		t.Errorf("kept %q, want the most recently modified 2021 envelope", got[0].URL)
	}
}

func TestListEnvelopesPropagatesSearchError(t *testing.T) {
	finder := &fakeFinder{err: errors.New("boom")}

	_, err := NewListEnvelopes(finder).Execute(context.Background(), ListRequest{
		Obligation: listObligation(t, "aqd:d"),
		Countries:  []string{"es"},
	})
	if err == nil {
		t.Fatal("expected search error to propagate")
	}
}
