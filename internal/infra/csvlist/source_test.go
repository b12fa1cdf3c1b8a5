package csvlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func TestRowsReadsHeaderedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clones.csv")
	content := "Obligation,Country,ReportingYear,CDREnvelope,CDRTESTEnvelope,FileCount\n" +
		"672,es,2021,https://cdr.example/es/env1,https://cdrtest.example/es/env1,3\n" +
		"672,it,2021,https://cdr.example/it/env1,https://cdrtest.example/it/env1,1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := NewSource().Rows(path)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["Country"] != "es" || rows[1]["Country"] != "it" {
		t.Fatalf("unexpected countries: %v", rows)
	}
	if rows[0]["CDRTESTEnvelope"] != "https://cdrtest.example/es/env1" {
		t.Fatalf("unexpected envelope: %q", rows[0]["CDRTESTEnvelope"])
	}

	urls, err := domain.Column(rows, "CDRTESTEnvelope")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls = %d, want 2", len(urls))
	}
}

func TestRowsDashReadsStdin(t *testing.T) {
	src := &Source{Stdin: strings.NewReader("CDREnvelope\nhttps://cdr.example/es/env1\n")}

	rows, err := src.Rows("-")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["CDREnvelope"] != "https://cdr.example/es/env1" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestRowsEmptyInput(t *testing.T) {
	src := &Source{Stdin: strings.NewReader("")}

	rows, err := src.Rows("-")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestRowsMissingFile(t *testing.T) {
	_, err := NewSource().Rows(filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRowsRaggedFile(t *testing.T) {
	src := &Source{Stdin: strings.NewReader("A,B\n1\n")}

	_, err := src.Rows("-")
	if err == nil {
		t.Fatal("expected error for a record shorter than the header")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}
