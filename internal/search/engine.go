// Package search ranks words against the published embeddings table.
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/lexicon"
	"github.com/hyperjump/kotoba/internal/metrics"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/ranking"
	"github.com/hyperjump/kotoba/internal/storage"
	"github.com/hyperjump/kotoba/internal/vector"
)

const maxSuggestions = 5

// Engine answers similarity and calculator queries. Per-word failures in a batch are
// reported on the item and never abort the rest of the batch.
type Engine struct {
	store   *embeddings.Store
	config  *config.SearchConfig
	history storage.History
	cache   *ResultCache
	logger  *zap.Logger

	suggestions bool
	lexicon     atomic.Pointer[lexicon.Lexicon]
	lexiconWG   sync.WaitGroup
	lexiconGen  atomic.Uint64

	last atomic.Pointer[models.RankedResult]
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHistory records every completed ranking in h.
func WithHistory(h storage.History) EngineOption {
	return func(e *Engine) { e.history = h }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithoutSuggestions disables the word suggestion index.
func WithoutSuggestions() EngineOption {
	return func(e *Engine) { e.suggestions = false }
}

// NewEngine creates a search engine over store. Every table the store publishes
// invalidates the result cache and rebuilds the suggestion index in the background.
func NewEngine(store *embeddings.Store, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = &config.Default().Search
	}
	e := &Engine{
		store:       store,
		config:      cfg,
		cache:       NewResultCache(cfg.CacheSize),
		logger:      zap.NewNop(),
		suggestions: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	store.OnPublish(e.onPublish)
	if t, err := store.Table(); err == nil {
		e.onPublish(t)
	}
	return e
}

func (e *Engine) onPublish(t *embeddings.Table) {
	e.cache.Purge()
	if !e.suggestions {
		return
	}
	gen := e.lexiconGen.Add(1)
	e.lexiconWG.Add(1)
	go func() {
		defer e.lexiconWG.Done()
		start := time.Now()
		lex, err := lexicon.New(t.Words(), lexicon.WithLogger(e.logger))
		if err != nil {
			e.logger.Warn("failed to build suggestion index", zap.Error(err))
			return
		}
		// a newer table may have been published while this one was indexing
		if e.lexiconGen.Load() != gen {
			_ = lex.Close()
			return
		}
		if old := e.lexicon.Swap(lex); old != nil {
			_ = old.Close()
		}
		e.logger.Debug("suggestion index ready", zap.Int("words", lex.Len()), zap.Duration("duration", time.Since(start)))
	}()
}

// Close waits for background indexing and releases the suggestion index.
func (e *Engine) Close() error {
	e.lexiconWG.Wait()
	if lex := e.lexicon.Swap(nil); lex != nil {
		return lex.Close()
	}
	return nil
}

// Similar ranks each requested word. The response has one item per word, in request order.
func (e *Engine) Similar(ctx context.Context, req *models.SimilarityRequest) (*models.SimilarityResponse, error) {
	start := time.Now()
	if err := req.Validate(e.config.DefaultK, e.config.MaxK); err != nil {
		return nil, err
	}
	metric, err := e.metric(req.Metric)
	if err != nil {
		return nil, err
	}
	table, err := e.store.Table()
	if err != nil {
		return nil, err
	}

	items := make([]*models.BatchItem, len(req.Words))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, word := range req.Words {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, word string) {
			defer wg.Done()
			defer func() { <-sem }()
			items[i] = e.similarItem(ctx, table, word, req.K, metric, req.Dissimilar)
		}(i, word)
	}
	wg.Wait()

	return &models.SimilarityResponse{
		Items:     items,
		QueryTime: time.Since(start).Milliseconds(),
	}, nil
}

func (e *Engine) similarItem(ctx context.Context, table *embeddings.Table, word string, k int, metric vector.Metric, dissimilar bool) *models.BatchItem {
	item := &models.BatchItem{Label: word}
	res, err := e.rank(ctx, table, "word", word, embeddings.Word(word), k, metric, dissimilar)
	if err != nil {
		item.Err = err
		item.Error = err.Error()
		if errors.Is(err, embeddings.ErrWordNotFound) {
			item.Suggestions, _ = e.Suggest(word, maxSuggestions)
		}
		return item
	}
	item.Result = res
	return item
}

// Calculate evaluates a word expression such as "king - man + woman" and ranks the
// words nearest to the resulting vector.
func (e *Engine) Calculate(ctx context.Context, req *models.CalculationRequest) (*models.RankedResult, error) {
	if err := req.Validate(e.config.DefaultK, e.config.MaxK); err != nil {
		return nil, err
	}
	expr, err := ParseExpression(req.Expression)
	if err != nil {
		return nil, err
	}
	metric, err := e.metric(req.Metric)
	if err != nil {
		return nil, err
	}
	table, err := e.store.Table()
	if err != nil {
		return nil, err
	}
	v, err := expr.Evaluate(table)
	if err != nil {
		e.countError(err)
		return nil, err
	}
	return e.rank(ctx, table, "expr", expr.String(), embeddings.Vec(v), req.K, metric, req.Dissimilar)
}

// rank serves a query from the cache or scans the table, then records the result.
func (e *Engine) rank(ctx context.Context, table *embeddings.Table, kind, label string, query embeddings.Operand, k int, metric vector.Metric, dissimilar bool) (*models.RankedResult, error) {
	direction := "similar"
	if dissimilar {
		direction = "dissimilar"
	}
	metrics.RankQueriesTotal.WithLabelValues(metric.Name(), direction).Inc()

	key := fmt.Sprintf("%s|%d|%s|%s|%s|%d|%s", table.SourceID(), table.LoadedAt().UnixNano(), kind, label, metric.Name(), k, direction)
	matches, ok := e.cache.Get(key)
	if ok {
		metrics.ResultCacheHitsTotal.Inc()
	} else {
		metrics.ResultCacheMissesTotal.Inc()
		start := time.Now()
		var err error
		matches, err = table.Rank(query, k, metric, !dissimilar)
		metrics.RankDuration.WithLabelValues(metric.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			e.countError(err)
			return nil, err
		}
		e.cache.Set(key, matches)
	}

	res := &models.RankedResult{
		ID:         uuid.NewString(),
		Label:      label,
		Metric:     metric.Name(),
		K:          k,
		Dissimilar: dissimilar,
		SourceID:   table.SourceID(),
		Matches:    matches,
		CreatedAt:  time.Now().UTC(),
	}
	e.last.Store(res)

	if e.history != nil {
		if err := e.history.SaveResult(ctx, res); err != nil {
			e.logger.Warn("failed to record result", zap.String("label", label), zap.Error(err))
		}
	}
	e.logger.Debug("ranked", zap.String("label", label), zap.String("metric", metric.Name()), zap.Int("k", k), zap.Bool("cached", ok))
	return res, nil
}

func (e *Engine) countError(err error) {
	kind := "other"
	switch {
	case errors.Is(err, embeddings.ErrWordNotFound):
		kind = "word_not_found"
	case errors.Is(err, vector.ErrDimensionMismatch):
		kind = "dimension_mismatch"
	case errors.Is(err, ranking.ErrInsufficientData):
		kind = "insufficient_data"
	}
	metrics.RankErrorsTotal.WithLabelValues(kind).Inc()
}

func (e *Engine) metric(name string) (vector.Metric, error) {
	if name == "" {
		name = e.config.Metric
	}
	if name == "" {
		return vector.DefaultMetric, nil
	}
	return vector.ParseMetric(name)
}

// Last returns the most recent successful result, or nil.
func (e *Engine) Last() *models.RankedResult { return e.last.Load() }

// Suggest returns known words close to word. It returns nil while the suggestion
// index is still being built.
func (e *Engine) Suggest(word string, n int) ([]string, error) {
	lex := e.lexicon.Load()
	if lex == nil {
		return nil, nil
	}
	return lex.Suggest(word, n)
}

// Lookup returns the vector of word in the current table.
func (e *Engine) Lookup(word string) (vector.Vector, error) {
	table, err := e.store.Table()
	if err != nil {
		return nil, err
	}
	return table.VectorOf(word)
}

// Status describes the store and its current table.
func (e *Engine) Status() models.TableStatus {
	st := models.TableStatus{State: e.store.State().String()}
	if t, err := e.store.Table(); err == nil {
		st.Path = t.Path()
		st.SourceID = t.SourceID()
		st.Words = t.WordCount()
		st.Features = t.FeatureCount()
		st.LoadedAt = t.LoadedAt()
	}
	return st
}

// Reload loads path into the store. A failed reload keeps the current table.
func (e *Engine) Reload(path string) (*embeddings.Table, error) {
	return e.store.Load(path)
}

// History returns the result history, or nil when none is configured.
func (e *Engine) History() storage.History { return e.history }

// WaitSuggestions blocks until background suggestion indexing has finished.
func (e *Engine) WaitSuggestions() { e.lexiconWG.Wait() }
