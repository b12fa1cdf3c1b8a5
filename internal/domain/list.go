package domain

import "fmt"

// ListRow is one record from a tabular envelope list, keyed by column name.
type ListRow map[string]string

// Column extracts the named column from every row. It fails on the first row
// missing the column so a wrong column name surfaces immediately.
func Column(rows []ListRow, name string) ([]string, error) {
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		v, ok := r[name]
		if !ok {
			return nil, &OpError{
				Op:   "list.column",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("row %d has no column %q", i+1, name),
			}
		}
		out = append(out, v)
	}
	return out, nil
}
