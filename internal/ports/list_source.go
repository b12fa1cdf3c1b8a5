package ports

import "github.com/libertil/eea-cdrtools/internal/domain"

// ListSource reads envelope lists from tabular input, e.g. a clone report.
// Path "-" means standard input.
type ListSource interface {
	Rows(path string) ([]domain.ListRow, error)
}
