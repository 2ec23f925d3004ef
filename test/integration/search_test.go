package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/server"
	"github.com/hyperjump/kotoba/internal/storage"
	"github.com/hyperjump/kotoba/internal/watcher"
)

const animals = `cat, 1.0, 0.1, 0.0
kitten, 0.95, 0.15, 0.05
dog, 0.2, 1.0, 0.0
puppy, 0.25, 0.95, 0.05
fish, 0.0, 0.0, 1.0
`

const vehicles = `car, 1.0, 0.0
truck, 0.9, 0.1
bike, 0.0, 1.0
`

type pipeline struct {
	path   string
	ts     *httptest.Server
	engine *search.Engine
}

// newPipeline wires loader, store, engine with SQLite history, watcher and HTTP API
// the same way the server command does.
func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(animals), 0644))

	cfg := config.Default()
	cfg.Embeddings.Path = path
	cfg.Storage.DatabasePath = filepath.Join(dir, "history.db")
	cfg.Search.DefaultK = 2

	logger := zap.NewNop()
	store := embeddings.NewStore(embeddings.WithStoreLogger(logger))
	history, err := storage.NewSQLiteHistory(cfg.Storage.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	engine := search.NewEngine(store, &cfg.Search, search.WithHistory(history), search.WithLogger(logger))
	t.Cleanup(func() { _ = engine.Close() })
	_, err = engine.Reload(path)
	require.NoError(t, err)

	w := watcher.NewWatcher([]string{path}, watcher.ReloadFunc(engine.Reload, logger),
		watcher.WithLogger(logger), watcher.WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))
	t.Cleanup(w.Stop)

	srv := server.NewServer(engine, &cfg.Server, logger, w, filepath.Join(dir, "config.yaml"), cfg)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &pipeline{path: path, ts: ts, engine: engine}
}

func (p *pipeline) post(t *testing.T, route string, body interface{}, out interface{}) int {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(p.ts.URL+route, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (p *pipeline) get(t *testing.T, route string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(p.ts.URL + route)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// status is safe to call from require.Eventually, which polls on another goroutine.
func (p *pipeline) status() (models.TableStatus, bool) {
	var out struct {
		Table models.TableStatus `json:"table"`
	}
	resp, err := http.Get(p.ts.URL + "/api/v1/status")
	if err != nil {
		return out.Table, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out.Table, false
	}
	return out.Table, json.NewDecoder(resp.Body).Decode(&out) == nil
}

func TestPipeline_SimilarThenHistory(t *testing.T) {
	p := newPipeline(t)

	var resp models.SimilarityResponse
	code := p.post(t, "/api/v1/similar", models.SimilarityRequest{Words: []string{"cat", "dog"}}, &resp)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[0].Result)
	assert.Equal(t, "cat", resp.Items[0].Result.Matches[0].Word)
	assert.Equal(t, "kitten", resp.Items[0].Result.Matches[1].Word)
	assert.Equal(t, "puppy", resp.Items[1].Result.Matches[1].Word)

	var stored models.RankedResult
	require.Equal(t, http.StatusOK, p.get(t, "/api/v1/history/"+resp.Items[0].Result.ID, &stored))
	assert.Equal(t, "cat", stored.Label)
	assert.Equal(t, resp.Items[0].Result.Matches, stored.Matches)

	var last models.RankedResult
	require.Equal(t, http.StatusOK, p.get(t, "/api/v1/last", &last))
	assert.Contains(t, []string{"cat", "dog"}, last.Label)
}

func TestPipeline_MissingWordSuggests(t *testing.T) {
	p := newPipeline(t)
	p.engine.WaitSuggestions()

	var resp models.SimilarityResponse
	require.Equal(t, http.StatusOK, p.post(t, "/api/v1/similar", models.SimilarityRequest{Words: []string{"kiten"}}, &resp))
	require.Len(t, resp.Items, 1)
	assert.Nil(t, resp.Items[0].Result)
	assert.NotEmpty(t, resp.Items[0].Error)
	assert.Contains(t, resp.Items[0].Suggestions, "kitten")
}

func TestPipeline_WatcherReloadsChangedFile(t *testing.T) {
	p := newPipeline(t)

	before, ok := p.status()
	require.True(t, ok)
	require.Equal(t, 5, before.Words)
	require.Equal(t, 3, before.Features)

	require.NoError(t, os.WriteFile(p.path, []byte(vehicles), 0644))

	require.Eventually(t, func() bool {
		st, ok := p.status()
		return ok && st.Words == 3 && st.Features == 2
	}, 5*time.Second, 20*time.Millisecond)

	var res models.RankedResult
	require.Equal(t, http.StatusOK, p.post(t, "/api/v1/calculate", models.CalculationRequest{Expression: "truck", K: 2}, &res))
	assert.Equal(t, []string{"truck", "car"}, []string{res.Matches[0].Word, res.Matches[1].Word})
	assert.Equal(t, http.StatusNotFound, p.post(t, "/api/v1/calculate", models.CalculationRequest{Expression: "cat"}, nil))
}

func TestPipeline_BrokenRewriteKeepsTable(t *testing.T) {
	p := newPipeline(t)
	require.NoError(t, os.WriteFile(p.path, []byte("cat, 1.0, 0.1\ndog, oops, 1.0\n"), 0644))

	// the watcher load fails; an explicit reload reports it and the table survives
	assert.Equal(t, http.StatusUnprocessableEntity, p.post(t, "/api/v1/reload", map[string]string{}, nil))

	// the watcher may still be retrying the same broken file
	require.Eventually(t, func() bool {
		st, ok := p.status()
		return ok && st.State == "loaded"
	}, 5*time.Second, 20*time.Millisecond)
	st, _ := p.status()
	assert.Equal(t, 5, st.Words)
}
