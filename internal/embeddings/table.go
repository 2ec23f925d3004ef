// Package embeddings holds an in-memory word embeddings table, its loader, and the
// store that publishes reloaded tables to concurrent readers.
package embeddings

import (
	"fmt"
	"time"

	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/ranking"
	"github.com/hyperjump/kotoba/internal/vector"
)

// Table is an immutable vocabulary of words and their feature vectors.
// Every vector has FeatureCount components. It is safe for concurrent readers.
type Table struct {
	path     string
	sourceID string
	words    []string
	vectors  []vector.Vector
	features int
	loadedAt time.Time
}

// New builds a table from parallel word and vector slices. The slices are copied.
func New(words []string, vectors []vector.Vector) (*Table, error) {
	if len(words) != len(vectors) {
		return nil, fmt.Errorf("%d words for %d vectors", len(words), len(vectors))
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedHeader)
	}
	features := len(vectors[0])
	if features < 1 {
		return nil, fmt.Errorf("%w: no features", ErrMalformedHeader)
	}
	t := &Table{
		words:    make([]string, len(words)),
		vectors:  make([]vector.Vector, len(vectors)),
		features: features,
		loadedAt: time.Now(),
	}
	copy(t.words, words)
	for i, v := range vectors {
		if len(v) != features {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrRowShapeMismatch, i+1, len(v), features)
		}
		t.vectors[i] = vector.Clone(v)
	}
	return t, nil
}

// Path returns the file the table was loaded from, or the name given to LoadReader.
func (t *Table) Path() string { return t.path }

// SourceID identifies the source contents the table was built from.
func (t *Table) SourceID() string { return t.sourceID }

// WordCount returns the number of rows.
func (t *Table) WordCount() int { return len(t.words) }

// FeatureCount returns the length of every vector.
func (t *Table) FeatureCount() int { return t.features }

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Word returns the word at row i.
func (t *Table) Word(i int) string { return t.words[i] }

// Words returns a copy of the vocabulary in row order.
func (t *Table) Words() []string {
	out := make([]string, len(t.words))
	copy(out, t.words)
	return out
}

// IndexOf returns the row of the first occurrence of word. Matching is exact.
func (t *Table) IndexOf(word string) (int, error) {
	for i, w := range t.words {
		if w == word {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrWordNotFound, word)
}

// VectorOf returns a copy of word's vector.
func (t *Table) VectorOf(word string) (vector.Vector, error) {
	i, err := t.IndexOf(word)
	if err != nil {
		return nil, err
	}
	return vector.Clone(t.vectors[i]), nil
}

// Operand is either a word to look up in the table or a raw vector.
type Operand struct {
	word   string
	vec    vector.Vector
	isWord bool
}

// Word returns an operand that resolves to the vector of w.
func Word(w string) Operand { return Operand{word: w, isWord: true} }

// Vec returns an operand that is v itself.
func Vec(v vector.Vector) Operand { return Operand{vec: v} }

// String returns the word, or a placeholder for raw vectors.
func (o Operand) String() string {
	if o.isWord {
		return o.word
	}
	return fmt.Sprintf("vector[%d]", len(o.vec))
}

// Resolve returns the vector an operand stands for.
func (t *Table) Resolve(op Operand) (vector.Vector, error) {
	if op.isWord {
		return t.VectorOf(op.word)
	}
	return op.vec, nil
}

func (t *Table) binary(a, b Operand, fn func(x, y vector.Vector) (vector.Vector, error)) (vector.Vector, error) {
	x, err := t.Resolve(a)
	if err != nil {
		return nil, err
	}
	y, err := t.Resolve(b)
	if err != nil {
		return nil, err
	}
	return fn(x, y)
}

// Add resolves both operands and returns their sum.
func (t *Table) Add(a, b Operand) (vector.Vector, error) { return t.binary(a, b, vector.Add) }

// Subtract resolves both operands and returns a - b.
func (t *Table) Subtract(a, b Operand) (vector.Vector, error) { return t.binary(a, b, vector.Subtract) }

// Multiply resolves both operands and returns their element-wise product.
func (t *Table) Multiply(a, b Operand) (vector.Vector, error) { return t.binary(a, b, vector.Multiply) }

// Divide resolves both operands and returns their element-wise quotient.
func (t *Table) Divide(a, b Operand) (vector.Vector, error) { return t.binary(a, b, vector.Divide) }

// Scores returns metric(query, row) for every row, in row order.
func (t *Table) Scores(query vector.Vector, metric vector.Metric) ([]float64, error) {
	scores := make([]float64, len(t.vectors))
	for i, v := range t.vectors {
		s, err := metric.Score(query, v)
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return scores, nil
}

// Rank scores every row against query and returns the k best matches, best first.
// wantSimilar selects the most similar words; false selects the least similar.
func (t *Table) Rank(query Operand, k int, metric vector.Metric, wantSimilar bool) ([]models.Match, error) {
	q, err := t.Resolve(query)
	if err != nil {
		return nil, err
	}
	scores, err := t.Scores(q, metric)
	if err != nil {
		return nil, err
	}
	indices, err := ranking.SelectTopK(scores, k, metric.WantMax(wantSimilar))
	if err != nil {
		return nil, err
	}
	matches := make([]models.Match, len(indices))
	for i, idx := range indices {
		matches[i] = models.Match{Word: t.words[idx], Score: scores[idx]}
	}
	return matches, nil
}
