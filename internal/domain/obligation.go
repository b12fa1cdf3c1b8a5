package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Obligation ties a short dataflow code to the obligation number used by the
// search API and to the collection folder the envelopes live under.
type Obligation struct {
	Code   string
	Number int
	Folder string
}

// Air Quality Directive dataflows as registered in ROD
// (rod.eionet.europa.eu) and laid out under /<country>/eu/... in CDR.
var obligations = map[string]Obligation{
	"aqd:b":     {Code: "aqd:b", Number: 670, Folder: "eu/aqd/b"},
	"aqd:c":     {Code: "aqd:c", Number: 671, Folder: "eu/aqd/c"},
	"aqd:d":     {Code: "aqd:d", Number: 672, Folder: "eu/aqd/d"},
	"aqd:e1a":   {Code: "aqd:e1a", Number: 673, Folder: "eu/aqd/e1a"},
	"aqd:g":     {Code: "aqd:g", Number: 679, Folder: "eu/aqd/g"},
	"aqd:h":     {Code: "aqd:h", Number: 680, Folder: "eu/aqd/h"},
	"aqd:i":     {Code: "aqd:i", Number: 681, Folder: "eu/aqd/i"},
	"aqd:j":     {Code: "aqd:j", Number: 682, Folder: "eu/aqd/j"},
	"aqd:k":     {Code: "aqd:k", Number: 683, Folder: "eu/aqd/k"},
	"aqd:b_pre": {Code: "aqd:b_pre", Number: 693, Folder: "eu/aqd/b_preliminary"},
	"aqd:c_pre": {Code: "aqd:c_pre", Number: 694, Folder: "eu/aqd/c_preliminary"},
}

// ObligationByCode resolves a dataflow code such as "aqd:b". Codes are
// matched case-insensitively.
func ObligationByCode(code string) (Obligation, error) {
	ob, ok := obligations[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Obligation{}, &OpError{
			Op:   "obligation.lookup",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: %q", ErrUnknownObligation, code),
		}
	}
	return ob, nil
}

// ObligationByNumber resolves a ROD obligation number such as 670.
func ObligationByNumber(number int) (Obligation, error) {
	for _, ob := range obligations {
		if ob.Number == number {
			return ob, nil
		}
	}
	return Obligation{}, &OpError{
		Op:   "obligation.lookup",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%w: number %d", ErrUnknownObligation, number),
	}
}

// ResolveObligation accepts either a dataflow code ("aqd:b") or a bare
// obligation number ("670"). Numbers outside the registry resolve to an
// obligation without a collection folder: the search API takes any number,
// only envelope creation needs the folder.
func ResolveObligation(s string) (Obligation, error) {
	s = strings.TrimSpace(s)
	var number int
	if _, err := fmt.Sscanf(s, "%d", &number); err == nil && fmt.Sprintf("%d", number) == s {
		if ob, err := ObligationByNumber(number); err == nil {
			return ob, nil
		}
		if number <= 0 {
			return Obligation{}, &OpError{
				Op:   "obligation.lookup",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("%w: number %d", ErrUnknownObligation, number),
			}
		}
		return Obligation{Number: number}, nil
	}
	return ObligationByCode(s)
}

// KnownObligations returns the registry sorted by obligation number.
func KnownObligations() []Obligation {
	out := make([]Obligation, 0, len(obligations))
	for _, ob := range obligations {
		out = append(out, ob)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
