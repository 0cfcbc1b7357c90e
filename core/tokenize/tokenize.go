// Package tokenize supplies the pluggable normalization policies the
// metrics consume. A tokenizer maps one raw text segment to the
// canonical form a metric extracts n-grams from: word tokenizers
// separate tokens with single spaces, the chrF tokenizer returns a
// bare character sequence. The metrics depend only on the Tokenizer
// interface, never on a specific policy.
package tokenize

// Tokenizer normalizes a raw segment before n-gram extraction.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	// Signature identifies the tokenization policy inside
	// reproducibility signatures.
	Signature() string

	// Tokenize returns the normalized form of line.
	Tokenize(line string) string
}

// NoneTokenizer passes segments through untouched, for input that is
// already tokenized.
type NoneTokenizer struct{}

func NewNoneTokenizer() NoneTokenizer {
	return NoneTokenizer{}
}

func (NoneTokenizer) Signature() string {
	return "none"
}

func (NoneTokenizer) Tokenize(line string) string {
	return line
}
