package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// SimilarityRequest asks for the k nearest (or farthest) words to each of Words.
type SimilarityRequest struct {
	Words      []string `json:"words"`
	K          int      `json:"k,omitempty"`
	Metric     string   `json:"metric,omitempty"`
	Dissimilar bool     `json:"dissimilar,omitempty"`
}

// Validate trims and drops empty words, fills K from defaultK when unset and caps it at maxK.
func (q *SimilarityRequest) Validate(defaultK, maxK int) error {
	words := q.Words[:0]
	for _, w := range q.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	q.Words = words
	if len(q.Words) == 0 {
		return fmt.Errorf("%w: at least one word is required", ErrInvalidRequest)
	}
	k, err := normalizeK(q.K, defaultK, maxK)
	if err != nil {
		return err
	}
	q.K = k
	return nil
}

// CalculationRequest ranks the words nearest to the vector an expression such as
// "king - man + woman" evaluates to.
type CalculationRequest struct {
	Expression string `json:"expression"`
	K          int    `json:"k,omitempty"`
	Metric     string `json:"metric,omitempty"`
	Dissimilar bool   `json:"dissimilar,omitempty"`
}

// Validate rejects an empty expression and normalizes K like SimilarityRequest.
func (q *CalculationRequest) Validate(defaultK, maxK int) error {
	q.Expression = strings.TrimSpace(q.Expression)
	if q.Expression == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrInvalidRequest)
	}
	k, err := normalizeK(q.K, defaultK, maxK)
	if err != nil {
		return err
	}
	q.K = k
	return nil
}

func normalizeK(k, defaultK, maxK int) (int, error) {
	if k < 0 {
		return 0, fmt.Errorf("%w: k must not be negative, got %d", ErrInvalidRequest, k)
	}
	if k == 0 {
		k = defaultK
	}
	if maxK > 0 && k > maxK {
		k = maxK
	}
	return k, nil
}
