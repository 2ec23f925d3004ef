// Package ranking selects the best-scoring positions out of a score list.
package ranking

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData is returned when more results are requested than there are scores.
	ErrInsufficientData = errors.New("not enough data to select from")
	// ErrInvalidK is returned for a negative result count.
	ErrInvalidK = errors.New("k must not be negative")
)

// SelectTopK returns the indices of the k best scores, best first. With wantMax the
// largest scores are best, otherwise the smallest. Equal scores resolve to the lower
// index and NaN scores rank after every number in either direction. scores is not
// modified.
func SelectTopK(scores []float64, k int, wantMax bool) ([]int, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if k > len(scores) {
		return nil, fmt.Errorf("%w: requested %d of %d", ErrInsufficientData, k, len(scores))
	}
	if k == 0 {
		return []int{}, nil
	}

	work := make([]float64, len(scores))
	copy(work, scores)
	taken := make([]bool, len(scores))

	sentinel := math.Inf(1)
	if wantMax {
		sentinel = math.Inf(-1)
	}

	out := make([]int, 0, k)
	for len(out) < k {
		best := -1
		for i, s := range work {
			if taken[i] {
				continue
			}
			if best < 0 || better(s, work[best], wantMax) {
				best = i
			}
		}
		out = append(out, best)
		// taken alone keeps indices distinct; the sentinel write mirrors the classic
		// overwrite-with-worst scan and changes no result
		work[best] = sentinel
		taken[best] = true
	}
	return out, nil
}

// better reports whether a strictly outranks b.
func better(a, b float64, wantMax bool) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	case wantMax:
		return a > b
	default:
		return a < b
	}
}
