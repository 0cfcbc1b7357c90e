package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/mteval/core/tokenize"
)

func newDefaultBLEU(t *testing.T) *BLEU {
	t.Helper()
	m, err := NewBLEU(DefaultBLEUConfig())
	require.NoError(t, err)
	return m
}

// =============================================================================
// Construction
// =============================================================================

func TestNewBLEU_Defaults(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{})
	require.NoError(t, err)

	assert.Equal(t, SmoothExp, m.cfg.SmoothMethod)
	assert.Equal(t, "13a", m.tokenizer.Signature())
	assert.Equal(t, 1, m.cfg.NumRefs)
}

func TestNewBLEU_UnknownSmoothMethod(t *testing.T) {
	t.Parallel()

	_, err := NewBLEU(BLEUConfig{SmoothMethod: "bogus"})
	assert.Error(t, err)
}

func TestNewBLEU_AddKDefaultValue(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{SmoothMethod: SmoothAddK})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.smoothValue)
}

// =============================================================================
// Corpus scoring
// =============================================================================

func TestBLEU_CorpusScore_Identity(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	corpus := []string{
		"the cat sat on the mat",
		"it was the best of times",
	}
	score, err := m.CorpusScore(corpus, [][]string{corpus})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, score.Value(), 1e-9)
	assert.Equal(t, 1.0, score.BrevityPenalty)
	assert.Equal(t, score.SysLen, score.RefLen)
}

func TestBLEU_CorpusScore_NoOverlap(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{SmoothMethod: SmoothNone})
	require.NoError(t, err)

	score, err := m.CorpusScore(
		[]string{"aa bb cc dd"},
		[][]string{{"ee ff gg hh"}},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score.Value(), 1e-9)
}

func TestBLEU_CorpusScore_LengthMismatch(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	_, err := m.CorpusScore(
		[]string{"one", "two", "three"},
		[][]string{{"one", "two"}},
	)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBLEU_CorpusScore_NoReferenceStreams(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	_, err := m.CorpusScore([]string{"one"}, nil)
	assert.ErrorIs(t, err, ErrNoReferences)
}

func TestBLEU_Lowercase(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{Lowercase: true})
	require.NoError(t, err)

	score, err := m.CorpusScore(
		[]string{"THE CAT SAT ON THE MAT"},
		[][]string{{"the cat sat on the mat"}},
	)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score.Value(), 1e-9)
}

// =============================================================================
// Sentence scoring
// =============================================================================

func TestBLEU_SentenceScore_EffectiveOrder(t *testing.T) {
	t.Parallel()

	// A two-token hypothesis can only produce unigrams and bigrams;
	// sentence scoring restricts the geometric mean to those orders
	// instead of failing the missing ones.
	m := newDefaultBLEU(t)
	score, err := m.SentenceScore("the cat", []string{"the cat"})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score.Value(), 1e-9)
}

func TestBLEU_SentenceScore_BrevityPenalty(t *testing.T) {
	t.Parallel()

	// Perfect precisions but hypothesis shorter than the reference:
	// score = exp(1 - 3/2) * 100.
	m := newDefaultBLEU(t)
	score, err := m.SentenceScore("the cat", []string{"the cat sat"})
	require.NoError(t, err)

	expected := math.Exp(1-3.0/2.0) * 100
	assert.InDelta(t, expected, score.Value(), 1e-9)
	assert.InDelta(t, math.Exp(-0.5), score.BrevityPenalty, 1e-9)
}

func TestBLEU_SentenceScore_ExpSmoothing(t *testing.T) {
	t.Parallel()

	// "a b" against two references: both unigrams match, the bigram
	// does not. NIST smoothing turns the zero bigram precision into
	// 100/(2*total), so the score is sqrt(100 * 50).
	m := newDefaultBLEU(t)
	score, err := m.SentenceScore("a b", []string{"a x", "b y"})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(100*50), score.Value(), 1e-9)
}

func TestBLEU_SentenceScore_NoReferences(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	_, err := m.SentenceScore("abc", nil)
	assert.ErrorIs(t, err, ErrNoReferences)
}

// =============================================================================
// Multi-reference handling
// =============================================================================

func TestBLEU_MultiReference_MaxCountMerge(t *testing.T) {
	t.Parallel()

	// Reference n-gram counts merge by maximum multiplicity across
	// references, so each hypothesis unigram finds a match in some
	// reference.
	m := newDefaultBLEU(t)
	score, err := m.SentenceScore("a b", []string{"a b", "c d"})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score.Value(), 1e-9)
}

func TestBLEU_MultiReference_ClosestLength(t *testing.T) {
	t.Parallel()

	// The reference length closest to the hypothesis length feeds the
	// brevity penalty; here the two-token reference wins over the
	// five-token one, so no penalty applies.
	m := newDefaultBLEU(t)
	score, err := m.SentenceScore("a b", []string{"a b", "a b c d e"})
	require.NoError(t, err)

	assert.Equal(t, 2, score.RefLen)
	assert.Equal(t, 1.0, score.BrevityPenalty)
}

// =============================================================================
// Smoothing
// =============================================================================

func TestBLEU_FloorSmoothing(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{SmoothMethod: SmoothFloor, SmoothValue: 0.1})
	require.NoError(t, err)

	// Unigrams match, higher orders do not; floored precisions keep
	// the geometric mean above zero.
	score, err := m.CorpusScore(
		[]string{"a b c d"},
		[][]string{{"a c b d"}},
	)
	require.NoError(t, err)
	assert.Greater(t, score.Value(), 0.0)
	assert.Less(t, score.Value(), 100.0)
}

func TestBLEU_NoSmoothing_ZeroHigherOrder(t *testing.T) {
	t.Parallel()

	m, err := NewBLEU(BLEUConfig{SmoothMethod: SmoothNone})
	require.NoError(t, err)

	score, err := m.CorpusScore(
		[]string{"a b c d"},
		[][]string{{"a c b d"}},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score.Value(), 1e-9)
}

// =============================================================================
// Tokenization
// =============================================================================

func TestBLEU_TokenizerAffectsScore(t *testing.T) {
	t.Parallel()

	// With 13a the trailing punctuation becomes its own matching
	// token; the none tokenizer sees "mat." and "mat !" diverge.
	thirteenA := newDefaultBLEU(t)
	none, err := NewBLEU(BLEUConfig{Tokenizer: tokenize.NewNoneTokenizer()})
	require.NoError(t, err)

	hyp := []string{"the cat sat on the mat."}
	ref := [][]string{{"the cat sat on the mat ."}}

	withTok, err := thirteenA.CorpusScore(hyp, ref)
	require.NoError(t, err)
	withoutTok, err := none.CorpusScore(hyp, ref)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, withTok.Value(), 1e-9)
	assert.Less(t, withoutTok.Value(), withTok.Value())
}

// =============================================================================
// Reporting
// =============================================================================

func TestBLEUScore_Format(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	score, err := m.CorpusScore(
		[]string{"the cat sat on the mat"},
		[][]string{{"the cat sat on the mat"}},
	)
	require.NoError(t, err)

	assert.Equal(t,
		"BLEU = 100.00 100.0/100.0/100.0/100.0 (BP = 1.000 ratio = 1.000 hyp_len = 6 ref_len = 6)",
		score.Format(2, false, ""))
	assert.Equal(t, "100.00", score.Format(2, true, ""))
}

func TestBLEUScore_Format_EmptyReference(t *testing.T) {
	t.Parallel()

	// An all-empty reference stream leaves ref_len at zero; the report
	// must stay printable instead of emitting a NaN ratio.
	m := newDefaultBLEU(t)
	score, err := m.CorpusScore([]string{"a b"}, [][]string{{""}})
	require.NoError(t, err)

	require.Equal(t, 0, score.RefLen)
	formatted := score.Format(2, false, "")
	assert.NotContains(t, formatted, "NaN")
	assert.Contains(t, formatted, "ratio = 0.000")
}

func TestBLEU_Signature(t *testing.T) {
	t.Parallel()

	m := newDefaultBLEU(t)
	assert.Equal(t,
		"case.mixed+numrefs.1+smooth.exp+tok.13a+version."+Version,
		m.Signature().Render(false))
	assert.Equal(t,
		"c.mixed+#.1+s.exp+tok.13a+v."+Version,
		m.Signature().Render(true))
}
