// Package metric computes corpus-level and sentence-level machine
// translation evaluation scores from aligned hypothesis and reference
// text. The chrF metric pools character n-gram statistics; BLEU pools
// word n-gram statistics. Both apply one closed-form scoring function
// to a statistics vector, so sentence and corpus scoring differ only
// in whether the vector covers one segment or the whole stream.
package metric

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/hyper-light/mteval/core/ngram"
	"github.com/hyper-light/mteval/core/tokenize"
)

// Defaults for the chrF configuration. Beta 2 follows Popovic 2016
// (http://www.aclweb.org/anthology/W16-2341).
const (
	DefaultCharOrder = 6
	DefaultBeta      = 2
)

// CHRFConfig holds the chrF options. It is fixed for the lifetime of a
// CHRF instance and never mutated after construction, so one instance
// may serve concurrent scoring calls.
type CHRFConfig struct {
	// CharOrder is the maximum character n-gram order.
	CharOrder int

	// Beta weights recall against precision in the F-score. Values
	// above 1 favor recall.
	Beta float64

	// RemoveWhitespace strips all whitespace before n-gram extraction,
	// making the metric insensitive to tokenization differences.
	RemoveWhitespace bool

	// Lowercase folds case before n-gram extraction.
	Lowercase bool

	// NumRefs is the number of references expected per hypothesis.
	// Only the first reference is consulted; see CHRF.
	NumRefs int
}

// DefaultCHRFConfig returns the standard chrF configuration: character
// order 6, beta 2, whitespace removed, case preserved, one reference.
func DefaultCHRFConfig() CHRFConfig {
	return CHRFConfig{
		CharOrder:        DefaultCharOrder,
		Beta:             DefaultBeta,
		RemoveWhitespace: true,
		Lowercase:        false,
		NumRefs:          1,
	}
}

// CHRF computes the character n-gram F-score of hypotheses against
// references.
//
// Multi-reference scoring is not supported: when several references
// are supplied only the first is consulted. This mirrors the reference
// implementation and is a documented limitation rather than a silent
// fallback.
type CHRF struct {
	cfg       CHRFConfig
	tokenizer tokenize.Tokenizer
	signature Signature
}

// NewCHRF builds a chrF metric from cfg. Zero CharOrder, Beta and
// NumRefs fall back to their defaults.
func NewCHRF(cfg CHRFConfig) (*CHRF, error) {
	if cfg.CharOrder == 0 {
		cfg.CharOrder = DefaultCharOrder
	}
	if cfg.Beta == 0 {
		cfg.Beta = DefaultBeta
	}
	if cfg.NumRefs == 0 {
		cfg.NumRefs = 1
	}
	if cfg.CharOrder < 1 {
		return nil, fmt.Errorf("chrf: character order must be at least 1, got %d", cfg.CharOrder)
	}
	if cfg.Beta < 0 {
		return nil, fmt.Errorf("chrf: beta must be non-negative, got %g", cfg.Beta)
	}

	space := "false"
	if !cfg.RemoveWhitespace {
		space = "true"
	}
	caseInfo := "mixed"
	if cfg.Lowercase {
		caseInfo = "lc"
	}

	return &CHRF{
		cfg:       cfg,
		tokenizer: tokenize.NewChrfTokenizer(cfg.Lowercase, !cfg.RemoveWhitespace),
		signature: newSignature(
			signatureField{name: "numchars", abbr: "n", value: strconv.Itoa(cfg.CharOrder)},
			signatureField{name: "space", abbr: "s", value: space},
			signatureField{name: "case", abbr: "c", value: caseInfo},
			signatureField{name: "version", abbr: "v", value: Version},
		),
	}, nil
}

// Signature returns the reproducibility signature for this metric
// instance.
func (c *CHRF) Signature() Signature {
	return c.signature
}

// SentenceStatistics computes the statistics vector for a single
// (hypothesis, references) pair: for every order 1..CharOrder the
// hypothesis n-gram count, the reference n-gram count, and their
// multiset intersection size.
func (c *CHRF) SentenceStatistics(hypothesis string, references []string) (Statistics, error) {
	if len(references) == 0 {
		return nil, fmt.Errorf("chrf: %w", ErrNoReferences)
	}

	hyp := c.tokenizer.Tokenize(hypothesis)
	ref := c.tokenizer.Tokenize(references[0])

	stats := NewStatistics(c.cfg.CharOrder)
	for i := 0; i < c.cfg.CharOrder; i++ {
		hypGrams := ngram.ExtractChars(hyp, i+1)
		refGrams := ngram.ExtractChars(ref, i+1)
		stats[3*i] = hypGrams.Total()
		stats[3*i+1] = refGrams.Total()
		stats[3*i+2] = hypGrams.Intersect(refGrams).Total()
	}
	return stats, nil
}

// SentenceScore computes chrF for a single sentence pair.
func (c *CHRF) SentenceScore(hypothesis string, references []string) (*CHRFScore, error) {
	stats, err := c.SentenceStatistics(hypothesis, references)
	if err != nil {
		return nil, err
	}
	return c.score(stats), nil
}

// CorpusScore computes chrF over a corpus. The hypothesis stream is
// walked in lockstep with every reference stream, pairing the i-th
// hypothesis with the i-th segment of each stream; all streams must
// have exactly equal length. Per-segment statistics vectors are summed
// element-wise and scored once at the end, so the corpus score is
// computed from pooled statistics, not from an average of sentence
// scores.
func (c *CHRF) CorpusScore(hypotheses []string, refStreams [][]string) (*CHRFScore, error) {
	if len(refStreams) == 0 {
		return nil, fmt.Errorf("chrf: %w", ErrNoReferences)
	}
	for k, stream := range refStreams {
		if len(stream) != len(hypotheses) {
			return nil, lengthMismatch(k, len(stream), len(hypotheses))
		}
	}

	corpus := NewStatistics(c.cfg.CharOrder)
	refs := make([]string, len(refStreams))
	for i, hypothesis := range hypotheses {
		for k, stream := range refStreams {
			refs[k] = stream[i]
		}
		stats, err := c.SentenceStatistics(hypothesis, refs)
		if err != nil {
			return nil, err
		}
		corpus.Add(stats)
	}
	return c.score(corpus), nil
}

func (c *CHRF) score(stats Statistics) *CHRFScore {
	return &CHRFScore{
		score: fBetaScore(stats, c.cfg.Beta),
		Beta:  c.cfg.Beta,
		Order: c.cfg.CharOrder,
	}
}

// fBetaScore turns a statistics vector into an F-beta score in [0, 1].
// Only effective orders contribute: an order where either side has
// zero n-grams is excluded from the precision and recall averages
// rather than counted as zero. With no effective orders at all both
// averages are 0 and the score is 0, never NaN.
func fBetaScore(stats Statistics, beta float64) float64 {
	precisions := make([]float64, 0, stats.Order())
	recalls := make([]float64, 0, stats.Order())
	for i := 0; i < stats.Order(); i++ {
		hyp, ref, common := stats.Triplet(i)
		if hyp > 0 && ref > 0 {
			precisions = append(precisions, float64(common)/float64(hyp))
			recalls = append(recalls, float64(common)/float64(ref))
		}
	}

	effectiveOrder := len(precisions)
	if effectiveOrder == 0 {
		return 0
	}
	precision := floats.Sum(precisions) / float64(effectiveOrder)
	recall := floats.Sum(recalls) / float64(effectiveOrder)

	if precision+recall == 0 {
		return 0
	}
	betaSquare := beta * beta
	return (1 + betaSquare) * precision * recall / (betaSquare*precision + recall)
}

// CHRFScore is the terminal, read-only result of a chrF scoring call.
// The beta and order that produced the score are carried along for
// reporting.
type CHRFScore struct {
	score float64

	Beta  float64
	Order int
}

// Value returns the score scalar in [0, 1].
func (s *CHRFScore) Value() float64 {
	return s.score
}

// Format renders the score in the standard report form, for example
// "chrF2 = 0.586". Being 0-1 scaled, chrF gets one extra decimal place
// beyond the requested width. With scoreOnly only the numeric value is
// emitted; a non-empty signature is appended to the metric prefix.
func (s *CHRFScore) Format(width int, scoreOnly bool, signature string) string {
	width++
	if scoreOnly {
		return strconv.FormatFloat(s.score, 'f', width, 64)
	}

	prefix := fmt.Sprintf("chrF%d", int(s.Beta))
	if signature != "" {
		prefix += "+" + signature
	}
	return fmt.Sprintf("%s = %.*f", prefix, width, s.score)
}

func (s *CHRFScore) String() string {
	return s.Format(2, false, "")
}
