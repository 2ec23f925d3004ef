package ranking

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTopK(t *testing.T) {
	scores := []float64{0.5, 2.0, -1.0, 3.5, 0.0}

	tests := []struct {
		name    string
		k       int
		wantMax bool
		want    []int
	}{
		{"max one", 1, true, []int{3}},
		{"max three", 3, true, []int{3, 1, 0}},
		{"min two", 2, false, []int{2, 4}},
		{"all max", 5, true, []int{3, 1, 0, 4, 2}},
		{"all min", 5, false, []int{2, 4, 0, 1, 3}},
		{"zero", 0, true, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTopK(scores, tt.k, tt.wantMax)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectTopKErrors(t *testing.T) {
	_, err := SelectTopK([]float64{1, 2}, 3, true)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = SelectTopK(nil, 1, false)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = SelectTopK([]float64{1}, -1, true)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestSelectTopKDoesNotMutateInput(t *testing.T) {
	scores := []float64{3, 1, 2}
	_, err := SelectTopK(scores, 3, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, scores)
}

func TestSelectTopKTiesPreferLowerIndex(t *testing.T) {
	got, err := SelectTopK([]float64{1, 5, 5, 1, 5}, 4, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 0}, got)

	got, err = SelectTopK([]float64{1, 5, 5, 1, 5}, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, got)
}

func TestSelectTopKSentinelValuedInputs(t *testing.T) {
	inf := math.Inf(1)
	got, err := SelectTopK([]float64{inf, inf, inf}, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	got, err = SelectTopK([]float64{math.Inf(-1), 0, math.Inf(-1)}, 3, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, got)
}

func TestSelectTopKNaNRanksLast(t *testing.T) {
	nan := math.NaN()
	scores := []float64{nan, 1, nan, -2}

	got, err := SelectTopK(scores, 4, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 0, 2}, got)

	got, err = SelectTopK(scores, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 2}, got)
}

func TestSelectTopKNegationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(40)
		scores := make([]float64, n)
		negated := make([]float64, n)
		for i := range scores {
			// coarse values so ties show up
			scores[i] = float64(rng.Intn(10)) - 5
			negated[i] = -scores[i]
		}
		k := rng.Intn(n + 1)

		maxIdx, err := SelectTopK(scores, k, true)
		require.NoError(t, err)
		minIdx, err := SelectTopK(negated, k, false)
		require.NoError(t, err)
		assert.Equal(t, maxIdx, minIdx)

		seen := make(map[int]bool, k)
		for i, idx := range maxIdx {
			assert.False(t, seen[idx], "duplicate index %d", idx)
			seen[idx] = true
			if i > 0 {
				assert.GreaterOrEqual(t, scores[maxIdx[i-1]], scores[idx])
			}
		}
	}
}

func BenchmarkSelectTopK(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	scores := make([]float64, 100000)
	for i := range scores {
		scores[i] = rng.Float64()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SelectTopK(scores, 10, true); err != nil {
			b.Fatal(err)
		}
	}
}
