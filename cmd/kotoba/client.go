package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/storage"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// doJSON sends body (when non-nil) as JSON and decodes a 2xx response into out.
func doJSON(method, target string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(bytes.TrimSpace(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// queryViaHTTP runs a query against a running server. Use it while the server
// holds the table in memory instead of loading a second copy.
func queryViaHTTP(serverURL, command string, args []string, cfg *config.Config) ([]*models.BatchItem, error) {
	if command == commandCalc {
		var res models.RankedResult
		if err := doJSON(http.MethodPost, serverURL+"/api/v1/calculate", calculationRequest(args, cfg), &res); err != nil {
			return nil, fmt.Errorf("calculate failed: %w", err)
		}
		return []*models.BatchItem{{Label: res.Label, Result: &res}}, nil
	}
	var resp models.SimilarityResponse
	if err := doJSON(http.MethodPost, serverURL+"/api/v1/similar", similarityRequest(command, args, cfg), &resp); err != nil {
		return nil, fmt.Errorf("similar failed: %w", err)
	}
	return resp.Items, nil
}

// historyClient is the part of the result history the history command uses.
type historyClient interface {
	list(ctx context.Context, offset, limit int) ([]*models.RankedResult, int64, error)
	get(ctx context.Context, id string) (*models.RankedResult, error)
	delete(ctx context.Context, id string) error
}

type localHistory struct {
	db storage.History
}

func (l *localHistory) list(ctx context.Context, offset, limit int) ([]*models.RankedResult, int64, error) {
	results, err := l.db.ListResults(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := l.db.CountResults(ctx)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (l *localHistory) get(ctx context.Context, id string) (*models.RankedResult, error) {
	return l.db.GetResult(ctx, id)
}

func (l *localHistory) delete(ctx context.Context, id string) error {
	return l.db.DeleteResult(ctx, id)
}

type httpHistory struct {
	baseURL string
}

func (h *httpHistory) list(_ context.Context, offset, limit int) ([]*models.RankedResult, int64, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Results []*models.RankedResult `json:"results"`
		Total   int64                  `json:"total"`
	}
	if err := doJSON(http.MethodGet, h.baseURL+"/api/v1/history?"+q.Encode(), nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Results, out.Total, nil
}

func (h *httpHistory) get(_ context.Context, id string) (*models.RankedResult, error) {
	var res models.RankedResult
	if err := doJSON(http.MethodGet, h.baseURL+"/api/v1/history/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *httpHistory) delete(_ context.Context, id string) error {
	return doJSON(http.MethodDelete, h.baseURL+"/api/v1/history/"+url.PathEscape(id), nil, nil)
}
