package metric

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"

	"github.com/hyper-light/mteval/core/ngram"
	"github.com/hyper-light/mteval/core/tokenize"
)

// BLEUOrder is the maximum word n-gram order used by BLEU.
const BLEUOrder = 4

// flooredLogValue stands in for log(0) so that a zero precision drives
// the geometric mean to zero instead of producing -Inf arithmetic.
const flooredLogValue = -9999999999

// SmoothMethod selects the smoothing applied to zero n-gram precisions,
// following Chen & Cherry, WMT 2014 (http://aclweb.org/anthology/W14-3346).
type SmoothMethod string

const (
	// SmoothExp is the NIST smoothing (Method 3): each successive zero
	// precision is replaced by a geometrically shrinking pseudo-count.
	SmoothExp SmoothMethod = "exp"

	// SmoothFloor replaces zero precisions with a fixed floor value
	// (Method 1).
	SmoothFloor SmoothMethod = "floor"

	// SmoothAddK adds k to the counts of every order above 1
	// (Method 2, generalizing Lin and Och 2004).
	SmoothAddK SmoothMethod = "add-k"

	// SmoothNone applies no smoothing.
	SmoothNone SmoothMethod = "none"
)

func (m SmoothMethod) valid() bool {
	switch m {
	case SmoothExp, SmoothFloor, SmoothAddK, SmoothNone:
		return true
	}
	return false
}

func (m SmoothMethod) defaultValue() float64 {
	if m == SmoothAddK {
		return 1
	}
	return 0
}

// BLEUConfig holds the BLEU options. Immutable after construction.
type BLEUConfig struct {
	// SmoothMethod selects the zero-precision smoothing.
	SmoothMethod SmoothMethod

	// SmoothValue parameterizes the floor and add-k methods. Zero
	// selects the method default (floor: 0, add-k: 1).
	SmoothValue float64

	// Tokenizer is the word tokenization policy. Nil selects the
	// mteval-v13a tokenizer.
	Tokenizer tokenize.Tokenizer

	// Lowercase folds case before tokenization.
	Lowercase bool

	// NumRefs is the number of references expected per hypothesis.
	NumRefs int

	// Force suppresses the warning emitted when hypotheses look like
	// they were already tokenized.
	Force bool
}

// DefaultBLEUConfig returns the standard BLEU configuration: exp
// smoothing, 13a tokenization, case preserved, one reference.
func DefaultBLEUConfig() BLEUConfig {
	return BLEUConfig{
		SmoothMethod: SmoothExp,
		Tokenizer:    tokenize.NewTokenizer13a(),
		NumRefs:      1,
	}
}

// BLEU computes the word n-gram BLEU score of hypotheses against one
// or more references. Unlike chrF, BLEU honors every supplied
// reference stream: per segment, reference n-gram counts are merged by
// maximum multiplicity and the closest reference length feeds the
// brevity penalty.
type BLEU struct {
	cfg         BLEUConfig
	tokenizer   tokenize.Tokenizer
	smoothValue float64
	signature   Signature
}

// NewBLEU builds a BLEU metric from cfg. An empty smoothing method
// falls back to exp, a nil tokenizer to 13a.
func NewBLEU(cfg BLEUConfig) (*BLEU, error) {
	if cfg.SmoothMethod == "" {
		cfg.SmoothMethod = SmoothExp
	}
	if !cfg.SmoothMethod.valid() {
		return nil, fmt.Errorf("bleu: unknown smooth method %q", cfg.SmoothMethod)
	}
	if cfg.Tokenizer == nil {
		cfg.Tokenizer = tokenize.NewTokenizer13a()
	}
	if cfg.NumRefs == 0 {
		cfg.NumRefs = 1
	}

	smoothValue := cfg.SmoothValue
	if smoothValue == 0 {
		smoothValue = cfg.SmoothMethod.defaultValue()
	}

	caseInfo := "mixed"
	if cfg.Lowercase {
		caseInfo = "lc"
	}

	return &BLEU{
		cfg:         cfg,
		tokenizer:   cfg.Tokenizer,
		smoothValue: smoothValue,
		signature: newSignature(
			signatureField{name: "tok", abbr: "tok", value: cfg.Tokenizer.Signature()},
			signatureField{name: "smooth", abbr: "s", value: string(cfg.SmoothMethod)},
			signatureField{name: "numrefs", abbr: "#", value: strconv.Itoa(cfg.NumRefs)},
			signatureField{name: "case", abbr: "c", value: caseInfo},
			signatureField{name: "version", abbr: "v", value: Version},
		),
	}, nil
}

// Signature returns the reproducibility signature for this metric
// instance.
func (b *BLEU) Signature() Signature {
	return b.signature
}

// SentenceScore computes BLEU for a single sentence pair, scored as a
// one-segment corpus with the effective order enabled so that short
// segments are not penalized at orders they cannot produce.
//
// Computing BLEU at the sentence level is not its intended use; BLEU
// remains a corpus-level metric.
func (b *BLEU) SentenceScore(hypothesis string, references []string) (*BLEUScore, error) {
	if len(references) == 0 {
		return nil, fmt.Errorf("bleu: %w", ErrNoReferences)
	}
	refStreams := make([][]string, len(references))
	for k, ref := range references {
		refStreams[k] = []string{ref}
	}
	return b.corpusScore([]string{hypothesis}, refStreams, true)
}

// CorpusScore computes BLEU over a corpus. All streams are walked in
// strict lockstep and must have exactly equal length; sufficient
// statistics (correct and total n-gram counts per order, hypothesis
// and closest reference lengths) are pooled across segments and scored
// once at the end.
func (b *BLEU) CorpusScore(hypotheses []string, refStreams [][]string) (*BLEUScore, error) {
	return b.corpusScore(hypotheses, refStreams, false)
}

func (b *BLEU) corpusScore(hypotheses []string, refStreams [][]string, useEffectiveOrder bool) (*BLEUScore, error) {
	if len(refStreams) == 0 {
		return nil, fmt.Errorf("bleu: %w", ErrNoReferences)
	}
	for k, stream := range refStreams {
		if len(stream) != len(hypotheses) {
			return nil, lengthMismatch(k, len(stream), len(hypotheses))
		}
	}

	var sysLen, refLen int
	correct := make([]int, BLEUOrder)
	total := make([]int, BLEUOrder)

	tokenizedCount := 0
	refs := make([]string, len(refStreams))
	for i, hypothesis := range hypotheses {
		for k, stream := range refStreams {
			refs[k] = stream[i]
		}
		if b.cfg.Lowercase {
			hypothesis = strings.ToLower(hypothesis)
			for k := range refs {
				refs[k] = strings.ToLower(refs[k])
			}
		}

		if !b.cfg.Force && b.tokenizer.Signature() != "none" &&
			strings.HasSuffix(strings.TrimRightFunc(hypothesis, unicode.IsSpace), " .") {
			tokenizedCount++
			if tokenizedCount == 100 {
				slog.Warn("100 hypotheses end in a tokenized period ('.'); " +
					"it looks like the test data was not detokenized, which may hurt the score")
			}
		}

		output := strings.Fields(b.tokenizer.Tokenize(strings.TrimRightFunc(hypothesis, unicode.IsSpace)))
		sysLen += len(output)

		refNgrams, closestLen := b.referenceStats(refs, len(output))
		refLen += closestLen

		sysNgrams := ngram.ExtractWords(output, 1, BLEUOrder)
		for gram, count := range sysNgrams {
			n := strings.Count(gram, " ") + 1
			correct[n-1] += min(count, refNgrams[gram])
			total[n-1] += count
		}
	}

	return b.computeBLEU(correct, total, sysLen, refLen, useEffectiveOrder), nil
}

// referenceStats merges the references of one segment: n-gram counts
// are combined by maximum multiplicity and the reference length
// closest to the hypothesis length is selected (ties favor the
// shorter reference).
func (b *BLEU) referenceStats(refs []string, outputLen int) (ngram.Multiset, int) {
	merged := ngram.Multiset{}
	closestDiff := -1
	closestLen := 0

	for _, ref := range refs {
		tokens := strings.Fields(b.tokenizer.Tokenize(strings.TrimRightFunc(ref, unicode.IsSpace)))
		diff := outputLen - len(tokens)
		if diff < 0 {
			diff = -diff
		}
		if closestDiff < 0 || diff < closestDiff {
			closestDiff = diff
			closestLen = len(tokens)
		} else if diff == closestDiff && len(tokens) < closestLen {
			closestLen = len(tokens)
		}

		for gram, count := range ngram.ExtractWords(tokens, 1, BLEUOrder) {
			if count > merged[gram] {
				merged[gram] = count
			}
		}
	}
	return merged, closestLen
}

// computeBLEU turns pooled sufficient statistics into a BLEU score,
// applying the configured smoothing. With useEffectiveOrder the
// geometric mean runs over the orders the hypothesis could produce
// instead of the full BLEUOrder.
func (b *BLEU) computeBLEU(correct, total []int, sysLen, refLen int, useEffectiveOrder bool) *BLEUScore {
	correctF := make([]float64, BLEUOrder)
	totalF := make([]float64, BLEUOrder)
	for i := range correct {
		correctF[i] = float64(correct[i])
		totalF[i] = float64(total[i])
	}

	precisions := make([]float64, BLEUOrder)
	smoothMteval := 1.0
	effectiveOrder := BLEUOrder
	for n := 1; n <= BLEUOrder; n++ {
		if b.cfg.SmoothMethod == SmoothAddK && n > 1 {
			correctF[n-1] += b.smoothValue
			totalF[n-1] += b.smoothValue
		}
		if totalF[n-1] == 0 {
			break
		}
		if useEffectiveOrder {
			effectiveOrder = n
		}

		if correctF[n-1] == 0 {
			switch b.cfg.SmoothMethod {
			case SmoothExp:
				smoothMteval *= 2
				precisions[n-1] = 100 / (smoothMteval * totalF[n-1])
			case SmoothFloor:
				precisions[n-1] = 100 * b.smoothValue / totalF[n-1]
			}
		} else {
			precisions[n-1] = 100 * correctF[n-1] / totalF[n-1]
		}
	}

	brevityPenalty := 1.0
	if sysLen < refLen {
		if sysLen > 0 {
			brevityPenalty = math.Exp(1 - float64(refLen)/float64(sysLen))
		} else {
			brevityPenalty = 0
		}
	}

	logs := make([]float64, effectiveOrder)
	for i := 0; i < effectiveOrder; i++ {
		if precisions[i] == 0 {
			logs[i] = flooredLogValue
		} else {
			logs[i] = math.Log(precisions[i])
		}
	}
	score := brevityPenalty * math.Exp(floats.Sum(logs)/float64(effectiveOrder))

	return &BLEUScore{
		score:          score,
		Counts:         correct,
		Totals:         total,
		Precisions:     precisions,
		BrevityPenalty: brevityPenalty,
		SysLen:         sysLen,
		RefLen:         refLen,
	}
}

// BLEUScore is the terminal, read-only result of a BLEU scoring call,
// carrying the sufficient statistics alongside the score scalar.
type BLEUScore struct {
	score float64

	Counts         []int
	Totals         []int
	Precisions     []float64
	BrevityPenalty float64
	SysLen         int
	RefLen         int
}

// Value returns the score scalar in [0, 100].
func (s *BLEUScore) Value() float64 {
	return s.score
}

// Format renders the score in the standard report form, for example
// "BLEU = 34.22 67.1/40.4/26.2/17.6 (BP = 1.000 ratio = 1.021
// hyp_len = 106 ref_len = 104)".
func (s *BLEUScore) Format(width int, scoreOnly bool, signature string) string {
	if scoreOnly {
		return strconv.FormatFloat(s.score, 'f', width, 64)
	}

	prefix := "BLEU"
	if signature != "" {
		prefix += "+" + signature
	}

	precs := make([]string, len(s.Precisions))
	for i, p := range s.Precisions {
		precs[i] = strconv.FormatFloat(p, 'f', 1, 64)
	}

	ratio := 0.0
	if s.RefLen > 0 {
		ratio = float64(s.SysLen) / float64(s.RefLen)
	}

	return fmt.Sprintf("%s = %.*f %s (BP = %.3f ratio = %.3f hyp_len = %d ref_len = %d)",
		prefix, width, s.score, strings.Join(precs, "/"),
		s.BrevityPenalty, ratio, s.SysLen, s.RefLen)
}

func (s *BLEUScore) String() string {
	return s.Format(2, false, "")
}
