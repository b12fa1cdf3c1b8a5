package cdrclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(domain.RepoCDRTest,
		WithBaseURL(server.URL),
		WithRateLimit(0, 0),
		WithCredentials(domain.Credentials{Username: "reporter", Password: "pw"}),
	)
	return client, server
}

func TestSearchBuildsQuery(t *testing.T) {
	var gotQuery string
	var gotAuth bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/envelopes" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _, gotAuth = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSearchBody))
	}))

	released := true
	envs, err := client.Search(context.Background(), domain.EnvelopeQuery{
		Obligation:         672,
		CountryCode:        "es",
		Released:           &released,
		ReportingDateStart: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Fields:             []string{"url", "countryCode"},
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("envelopes = %d, want 1", len(envs))
	}
	want := "obligations=672&countryCode=es&isReleased=1&reportingDateStart=2021-01-01&fields=url,countryCode"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
	if !gotAuth {
		t.Fatal("expected basic auth on search")
	}
}

func TestSearchDefaultsFields(t *testing.T) {
	var gotFields string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(`{"envelopes": [], "errors": []}`))
	}))

	if _, err := client.Search(context.Background(), domain.EnvelopeQuery{Obligation: 680}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotFields == "" {
		t.Fatal("expected a field projection")
	}
	want := "url,title,description,countryCode,isReleased,reportingDate,modifiedDate," +
		"periodStartYear,periodEndYear,periodDescription,isBlockedByQCError,status," +
		"statusDate,creator,hasUnknownQC,files,obligations"
	if gotFields != want {
		t.Fatalf("fields = %q, want %q", gotFields, want)
	}
}

func TestSearchRemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	_, err := client.Search(context.Background(), domain.EnvelopeQuery{Obligation: 672})
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !domain.IsKind(err, domain.KindRemote) {
		t.Fatalf("expected remote kind, got %v", err)
	}
}

func TestSearchAuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))

	_, err := client.Search(context.Background(), domain.EnvelopeQuery{Obligation: 672})
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth kind, got %v", err)
	}
}

func TestSearchByURL(t *testing.T) {
	var gotURL string
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Write([]byte(sampleSearchBody))
	}))

	envURL := server.URL + "/es/eu/aqd/d/envyog3aq"
	envs, err := client.Search(context.Background(), domain.EnvelopeQuery{URL: envURL})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("envelopes = %d, want 1", len(envs))
	}
	if gotURL != envURL {
		t.Fatalf("url param = %q, want %q", gotURL, envURL)
	}
}
