package tokenize

import (
	"regexp"
	"strings"
)

type replacer struct {
	re   *regexp.Regexp
	repl string
}

// Tokenization rules shared with mteval-v13a: isolate general
// punctuation, keep periods and commas attached to digits on both
// sides, split dashes following digits.
var v13aRules = []replacer{
	{regexp.MustCompile("([\\{-\\~\\[-` -\\&\\(-\\+\\:-\\@/])"), " $1 "},
	{regexp.MustCompile(`([^0-9])([\.,])`), "$1 $2 "},
	{regexp.MustCompile(`([\.,])([^0-9])`), " $1 $2"},
	{regexp.MustCompile(`([0-9])(-)`), "$1 $2 "},
}

var v13aEntities = strings.NewReplacer(
	"<skipped>", "",
	"-\n", "",
	"\n", " ",
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Tokenizer13a applies the minimal language-independent tokenization
// of mteval-v13a, the scheme used by the WMT evaluation campaigns.
type Tokenizer13a struct{}

func NewTokenizer13a() Tokenizer13a {
	return Tokenizer13a{}
}

func (Tokenizer13a) Signature() string {
	return "13a"
}

func (Tokenizer13a) Tokenize(line string) string {
	out := v13aEntities.Replace(line)

	// Padding lets the digit-context rules see segment boundaries.
	out = " " + out + " "
	for _, rule := range v13aRules {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return strings.Join(strings.Fields(out), " ")
}
