package extract

import (
	"testing"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func TestQueryScalar(t *testing.T) {
	body := []byte(`{"envelopes":[{"url":"https://cdr.eionet.europa.eu/es/envx","periodStartYear":2020}]}`)

	got, err := Query(body, "$.envelopes[0].url")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != "https://cdr.eionet.europa.eu/es/envx" {
		t.Fatalf("got %q", got)
	}
}

func TestQueryNumberRendersWithoutExponent(t *testing.T) {
	body := []byte(`{"envelopes":[{"periodStartYear":2020}]}`)

	got, err := Query(body, "$.envelopes[0].periodStartYear")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != "2020" {
		t.Fatalf("got %q, want 2020", got)
	}
}

func TestQueryUnwrapsSingleMatch(t *testing.T) {
	body := []byte(`{"envelopes":[{"countryCode":"ES"}]}`)

	got, err := Query(body, `$.envelopes[*].countryCode`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != "ES" {
		t.Fatalf("got %q, want ES", got)
	}
}

func TestQueryMultipleMatchesAsJSON(t *testing.T) {
	body := []byte(`{"envelopes":[{"countryCode":"ES"},{"countryCode":"IT"}]}`)

	got, err := Query(body, `$.envelopes[*].countryCode`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != `["ES","IT"]` {
		t.Fatalf("got %q", got)
	}
}

func TestQueryNonJSON(t *testing.T) {
	_, err := Query([]byte("hello"), "$.x")
	if err == nil {
		t.Fatal("expected error for non-JSON document")
	}
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution kind, got %v", err)
	}
}

func TestQueryNoMatch(t *testing.T) {
	_, err := Query([]byte(`{"envelopes":[]}`), "$.envelopes[*].url")
	if err == nil {
		t.Fatal("expected error for empty match")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found kind, got %v", err)
	}
}

func TestQueryEmptyExpression(t *testing.T) {
	_, err := Query([]byte(`{}`), "  ")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config kind, got %v", err)
	}
}
