package metric

import (
	"sort"
	"strings"
)

// Version identifies the scoring implementation inside reproducibility
// signatures. Scores are only comparable when produced by the same
// version with the same signature.
const Version = "0.1.0"

type signatureField struct {
	name  string
	abbr  string
	value string
}

// Signature is an immutable summary of the configuration that produced
// a score, rendered as a reproducibility string. It is built once at
// metric construction and safely shared read-only across concurrent
// scoring calls.
type Signature struct {
	fields []signatureField
}

func newSignature(fields ...signatureField) Signature {
	sorted := make([]signatureField, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	return Signature{fields: sorted}
}

// Render returns the signature as name.value pairs joined by '+',
// sorted by field name. When short is true, abbreviated field names
// are used instead of full names.
func (s Signature) Render(short bool) string {
	pairs := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		name := f.name
		if short {
			name = f.abbr
		}
		pairs = append(pairs, name+"."+f.value)
	}
	return strings.Join(pairs, "+")
}

func (s Signature) String() string {
	return s.Render(false)
}
