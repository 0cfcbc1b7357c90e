package metric

// Score is the terminal, read-only output of a scoring call. Concrete
// scores carry the configuration that produced them so that reports
// remain reproducible.
type Score interface {
	// Value returns the score scalar. chrF scores live in [0, 1],
	// BLEU scores in [0, 100].
	Value() float64

	// Format renders the score for reporting: the full report line by
	// default, just the number with scoreOnly, with an optional
	// reproducibility signature appended to the metric prefix.
	Format(width int, scoreOnly bool, signature string) string
}
