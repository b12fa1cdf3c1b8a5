// Package extract applies JSONPath expressions to command output, backing
// the --query flag of the read commands.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Query evaluates a JSONPath expression against a JSON document and renders
// the result as text: scalars verbatim, single-element matches unwrapped,
// anything else re-encoded as JSON.
func Query(body []byte, expr string) (string, error) {
	const op = "extract.query"

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty jsonpath expression"),
		}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("document is not valid JSON: %w", err),
		}
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("jsonpath %q: %w", expr, err),
		}
	}
	if isEmptyValue(val) {
		return "", &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("jsonpath %q matched no value", expr),
		}
	}
	return toString(val)
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Common case: jsonpath returns a slice with one element.
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
