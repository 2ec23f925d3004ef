// Package lexicon suggests known words for a word that is missing from the table.
package lexicon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"go.uber.org/zap"
)

const (
	wordField    = "word"
	wordAnalyzer = "word"
	batchSize    = 1000
)

// Lexicon is an in-memory fuzzy index over a vocabulary.
type Lexicon struct {
	index       bleve.Index
	words       []string
	maxDistance int
	logger      *zap.Logger
}

// Option configures a Lexicon.
type Option func(*Lexicon)

// WithLogger sets a logger for build statistics.
func WithLogger(l *zap.Logger) Option {
	return func(x *Lexicon) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithMaxDistance sets the largest edit distance a suggestion may have (1 or 2).
func WithMaxDistance(d int) Option {
	return func(x *Lexicon) {
		if d > 0 && d <= 2 {
			x.maxDistance = d
		}
	}
}

type entry struct {
	Word string `json:"word"`
}

// New indexes words. Row order is kept so equally close suggestions come back in table order.
func New(words []string, opts ...Option) (*Lexicon, error) {
	x := &Lexicon{
		words:       words,
		maxDistance: 2,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}

	im := bleve.NewIndexMapping()
	if err := im.AddCustomAnalyzer(wordAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("failed to register word analyzer: %w", err)
	}
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = wordAnalyzer
	fm.Store = false
	fm.IncludeTermVectors = false
	dm := bleve.NewDocumentStaticMapping()
	dm.AddFieldMappingsAt(wordField, fm)
	im.DefaultMapping = dm

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create lexicon index: %w", err)
	}

	batch := index.NewBatch()
	for i, w := range words {
		if err := batch.Index(strconv.Itoa(i), entry{Word: w}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index %q: %w", w, err)
		}
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				_ = index.Close()
				return nil, fmt.Errorf("failed to index words: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index words: %w", err)
		}
	}
	x.index = index
	x.logger.Debug("lexicon built", zap.Int("words", len(words)))
	return x, nil
}

// Len returns the vocabulary size.
func (x *Lexicon) Len() int { return len(x.words) }

// Suggest returns up to n distinct known words within the edit distance limit of word,
// closest first. Comparison ignores case.
func (x *Lexicon) Suggest(word string, n int) ([]string, error) {
	word = strings.TrimSpace(word)
	if n <= 0 || word == "" {
		return nil, nil
	}
	needle := strings.ToLower(word)

	q := bleve.NewFuzzyQuery(needle)
	q.SetField(wordField)
	q.SetFuzziness(x.maxDistance)
	req := bleve.NewSearchRequest(q)
	req.Size = max(n*10, 50)

	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("lexicon search failed: %w", err)
	}

	type candidate struct {
		word     string
		row      int
		distance int
	}
	seen := make(map[string]bool, len(res.Hits))
	cands := make([]candidate, 0, len(res.Hits))
	for _, hit := range res.Hits {
		row, err := strconv.Atoi(hit.ID)
		if err != nil || row < 0 || row >= len(x.words) {
			continue
		}
		w := x.words[row]
		if seen[w] || w == word {
			continue
		}
		seen[w] = true
		cands = append(cands, candidate{
			word:     w,
			row:      row,
			distance: OptimalStringAlignment(needle, strings.ToLower(w)),
		})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].distance != cands[j].distance {
			return cands[i].distance < cands[j].distance
		}
		return cands[i].row < cands[j].row
	})

	out := make([]string, 0, min(n, len(cands)))
	for _, c := range cands {
		if len(out) == n {
			break
		}
		out = append(out, c.word)
	}
	return out, nil
}

// Close releases the index.
func (x *Lexicon) Close() error {
	if x.index == nil {
		return nil
	}
	return x.index.Close()
}
