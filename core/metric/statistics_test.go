package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatistics(t *testing.T) {
	t.Parallel()

	stats := NewStatistics(6)
	assert.Len(t, stats, 18)
	assert.Equal(t, 6, stats.Order())
	for _, v := range stats {
		assert.Zero(t, v)
	}
}

func TestStatistics_Triplet(t *testing.T) {
	t.Parallel()

	stats := Statistics{7, 8, 5, 3, 4, 2}
	hyp, ref, common := stats.Triplet(0)
	assert.Equal(t, [3]int{7, 8, 5}, [3]int{hyp, ref, common})

	hyp, ref, common = stats.Triplet(1)
	assert.Equal(t, [3]int{3, 4, 2}, [3]int{hyp, ref, common})
}

func TestStatistics_Add(t *testing.T) {
	t.Parallel()

	sum := NewStatistics(2)
	sum.Add(Statistics{1, 2, 1, 0, 0, 0})
	sum.Add(Statistics{3, 3, 2, 1, 1, 1})

	assert.Equal(t, Statistics{4, 5, 3, 1, 1, 1}, sum)
}
