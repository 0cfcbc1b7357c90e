package tokenize

import (
	"regexp"
	"strings"
)

// Rules following mteval-v14 international tokenization: split on
// punctuation and symbols by Unicode category, except when punctuation
// sits between digits (thousand and decimal separators).
var (
	nondigitPunctRe = regexp.MustCompile(`([^\p{Nd}])(\p{P})`)
	punctNondigitRe = regexp.MustCompile(`(\p{P})([^\p{Nd}])`)
	symbolRe        = regexp.MustCompile(`(\p{S})`)
)

// IntlTokenizer is the mteval-v14 international tokenizer. Unlike
// Tokenizer13a it relies on Unicode character categories instead of an
// ASCII punctuation list, which makes it usable for non-Latin scripts.
type IntlTokenizer struct{}

func NewIntlTokenizer() IntlTokenizer {
	return IntlTokenizer{}
}

func (IntlTokenizer) Signature() string {
	return "intl"
}

func (IntlTokenizer) Tokenize(line string) string {
	out := nondigitPunctRe.ReplaceAllString(line, "$1 $2 ")
	out = punctNondigitRe.ReplaceAllString(out, " $1 $2")
	out = symbolRe.ReplaceAllString(out, " $1 ")
	return strings.Join(strings.Fields(out), " ")
}
