// Package csvlist reads envelope list files and writes the CSV reports the
// batch commands exchange: delete and QA runs consume the files the clone
// report produces.
package csvlist

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// Source reads CSV list files with a header row. Path "-" selects Stdin.
type Source struct {
	// Stdin backs the "-" path; defaults to os.Stdin.
	Stdin io.Reader
}

func NewSource() *Source {
	return &Source{Stdin: os.Stdin}
}

var _ ports.ListSource = (*Source)(nil)

func (s *Source) Rows(path string) ([]domain.ListRow, error) {
	var r io.Reader
	if path == "-" {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "csvlist.open",
				Kind: domain.KindNotFound,
				Path: path,
				Err:  err,
			}
		}
		defer f.Close()
		r = f
	}

	rows, err := readRows(r)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "csvlist.read",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return rows, nil
}

// readRows maps each record onto the header row. A file without a header
// yields no rows.
func readRows(r io.Reader) ([]domain.ListRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []domain.ListRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(domain.ListRow, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
