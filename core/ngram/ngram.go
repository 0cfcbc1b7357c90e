// Package ngram extracts overlapping n-gram multisets from character and
// word sequences. It is the counting layer beneath the chrF and BLEU
// metrics: extraction never fails, sequences shorter than the requested
// order simply produce an empty multiset.
package ngram

import "strings"

// Multiset maps a distinct n-gram to its occurrence count within one
// sequence at one order. Word n-grams are keyed by their space-joined
// token form, character n-grams by the substring itself.
type Multiset map[string]int

// ExtractChars returns the multiset of overlapping character n-grams of
// order n in line. Positions are counted in runes, not bytes, so
// multi-byte characters form single atoms. A line shorter than n runes
// yields an empty multiset.
func ExtractChars(line string, n int) Multiset {
	if n < 1 {
		return Multiset{}
	}

	runes := []rune(line)
	grams := make(Multiset, max(0, len(runes)-n+1))
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])]++
	}
	return grams
}

// ExtractWords returns the multiset of all word n-grams with
// minOrder <= n <= maxOrder, keyed by the space-joined token form.
// Token slices shorter than minOrder yield an empty multiset.
func ExtractWords(tokens []string, minOrder, maxOrder int) Multiset {
	grams := Multiset{}
	for n := minOrder; n <= maxOrder; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return grams
}

// Total returns the number of n-grams in the multiset counted with
// multiplicity.
func (m Multiset) Total() int {
	total := 0
	for _, count := range m {
		total += count
	}
	return total
}

// Intersect returns the multiset intersection of m and other: every
// shared key with the minimum of the two counts. Repeated n-grams
// matter, so "aa" against "aaa" shares two unigrams, not one.
func (m Multiset) Intersect(other Multiset) Multiset {
	common := Multiset{}
	for gram, count := range m {
		if otherCount, ok := other[gram]; ok {
			common[gram] = min(count, otherCount)
		}
	}
	return common
}
