package embeddings

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/kotoba/internal/ranking"
	"github.com/hyperjump/kotoba/internal/vector"
)

const petsFile = "cat, 1.0, 2.0\ndog, 1.0, 2.1\nfish, -5.0, -5.0"

func petsTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := LoadReader(strings.NewReader(petsFile), "pets.txt")
	require.NoError(t, err)
	return tbl
}

func TestTableLookup(t *testing.T) {
	tbl := petsTable(t)
	assert.Equal(t, 3, tbl.WordCount())
	assert.Equal(t, 2, tbl.FeatureCount())
	assert.Equal(t, []string{"cat", "dog", "fish"}, tbl.Words())

	i, err := tbl.IndexOf("fish")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	v, err := tbl.VectorOf("dog")
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{1.0, 2.1}, v)

	_, err = tbl.IndexOf("Cat")
	assert.ErrorIs(t, err, ErrWordNotFound)
	_, err = tbl.VectorOf("bird")
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestTableVectorOfReturnsCopy(t *testing.T) {
	tbl := petsTable(t)
	v, err := tbl.VectorOf("cat")
	require.NoError(t, err)
	v[0] = 99

	again, err := tbl.VectorOf("cat")
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{1.0, 2.0}, again)
}

func TestTableDuplicateWordsFirstMatch(t *testing.T) {
	tbl, err := LoadReader(strings.NewReader("a 1\nb 2\na 3"), "dup.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.WordCount())
	v, err := tbl.VectorOf("a")
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{1}, v)
}

func TestTableAlgebraWrappers(t *testing.T) {
	tbl := petsTable(t)

	sum, err := tbl.Add(Word("cat"), Vec(vector.Vector{1, 1}))
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{2, 3}, sum)

	diff, err := tbl.Subtract(Vec(vector.Vector{0, 0}), Word("fish"))
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{5, 5}, diff)

	prod, err := tbl.Multiply(Word("cat"), Word("cat"))
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{1, 4}, prod)

	quot, err := tbl.Divide(Word("cat"), Vec(vector.Vector{2, 4}))
	require.NoError(t, err)
	assert.Equal(t, vector.Vector{0.5, 0.5}, quot)

	_, err = tbl.Add(Word("cat"), Word("bird"))
	assert.ErrorIs(t, err, ErrWordNotFound)

	_, err = tbl.Add(Word("cat"), Vec(vector.Vector{1, 2, 3}))
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestTableRank(t *testing.T) {
	tbl := petsTable(t)

	nearest, err := tbl.Rank(Word("cat"), 1, vector.EuclideanDistanceMetric, true)
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	assert.Equal(t, "cat", nearest[0].Word)
	assert.Zero(t, nearest[0].Score)

	farthest, err := tbl.Rank(Word("cat"), 1, vector.EuclideanDistanceMetric, false)
	require.NoError(t, err)
	require.Len(t, farthest, 1)
	assert.Equal(t, "fish", farthest[0].Word)
	assert.InDelta(t, math.Sqrt(36+49), farthest[0].Score, 1e-12)

	all, err := tbl.Rank(Word("cat"), 3, vector.CosineSimilarityMetric, true)
	require.NoError(t, err)
	assert.Equal(t, "cat", all[0].Word)
	assert.Equal(t, "dog", all[1].Word)
	assert.Equal(t, "fish", all[2].Word)
	assert.InDelta(t, 1.0, all[0].Score, 1e-12)
}

func TestTableRankOrientation(t *testing.T) {
	tbl := petsTable(t)
	for _, m := range vector.Metrics() {
		t.Run(m.Name(), func(t *testing.T) {
			got, err := tbl.Rank(Word("dog"), 3, m, true)
			require.NoError(t, err)
			for i := 1; i < len(got); i++ {
				if m.HigherIsMoreSimilar() {
					assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
				} else {
					assert.LessOrEqual(t, got[i-1].Score, got[i].Score)
				}
			}
		})
	}
}

func TestTableRankErrors(t *testing.T) {
	tbl := petsTable(t)

	_, err := tbl.Rank(Word("cat"), 4, vector.DotProductMetric, true)
	assert.ErrorIs(t, err, ranking.ErrInsufficientData)

	_, err = tbl.Rank(Vec(vector.Vector{1, 2, 3}), 1, vector.DotProductMetric, true)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)

	_, err = tbl.Rank(Word("bird"), 1, vector.DotProductMetric, true)
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestTableRankZeroQueryCosine(t *testing.T) {
	tbl := petsTable(t)
	got, err := tbl.Rank(Vec(vector.Vector{0, 0}), 2, vector.CosineSimilarityMetric, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cat", got[0].Word)
	assert.True(t, math.IsNaN(got[0].Score))
}

func TestNew(t *testing.T) {
	tbl, err := New([]string{"x", "y"}, []vector.Vector{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.FeatureCount())

	_, err = New([]string{"x", "y"}, []vector.Vector{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrRowShapeMismatch)

	_, err = New(nil, nil)
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = New([]string{"x"}, []vector.Vector{{1}, {2}})
	assert.Error(t, err)
}

func TestOperandString(t *testing.T) {
	assert.Equal(t, "cat", Word("cat").String())
	assert.Equal(t, "vector[3]", Vec(vector.Vector{1, 2, 3}).String())
}

func BenchmarkTableRank(b *testing.B) {
	const rows, features = 20000, 50
	words := make([]string, rows)
	vectors := make([]vector.Vector, rows)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%7)
		v := make(vector.Vector, features)
		for j := range v {
			v[j] = float64((i*31+j*17)%97) / 97
		}
		vectors[i] = v
	}
	tbl, err := New(words, vectors)
	if err != nil {
		b.Fatal(err)
	}
	query := Vec(vectors[123])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tbl.Rank(query, 10, vector.CosineSimilarityMetric, true); err != nil {
			b.Fatal(err)
		}
	}
}
