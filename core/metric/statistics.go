package metric

// Statistics holds the sufficient statistics of an n-gram metric as a
// flat vector of 3*order non-negative counts, laid out as triplets
// (hypothesis count, reference count, common count) for orders
// 1..order. Every triplet satisfies common <= min(hypothesis,
// reference).
//
// Vectors from different segments combine only by element-wise
// addition. This is what makes corpus scoring well defined: the corpus
// score is computed once from the pooled vector, never by averaging
// per-segment scores.
type Statistics []int

// NewStatistics returns a zeroed statistics vector for the given
// maximum n-gram order.
func NewStatistics(order int) Statistics {
	return make(Statistics, 3*order)
}

// Order returns the maximum n-gram order the vector covers.
func (s Statistics) Order() int {
	return len(s) / 3
}

// Triplet returns the (hypothesis, reference, common) counts for the
// zero-based order index i.
func (s Statistics) Triplet(i int) (hyp, ref, common int) {
	return s[3*i], s[3*i+1], s[3*i+2]
}

// Add accumulates other into s element-wise. Both vectors must cover
// the same order; trailing elements of a longer vector are ignored.
func (s Statistics) Add(other Statistics) {
	for i := 0; i < len(s) && i < len(other); i++ {
		s[i] += other[i]
	}
}
