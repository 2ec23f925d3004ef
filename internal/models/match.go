// Package models defines the data structures shared by the search engine, storage, and API.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Match is one ranked word with the score the metric gave it.
type Match struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

const (
	posInf = "+Inf"
	negInf = "-Inf"
)

// MarshalJSON encodes a NaN score (cosine against a zero vector) as null and
// infinite scores as the strings "+Inf" and "-Inf", since JSON numbers cannot
// represent them.
func (m Match) MarshalJSON() ([]byte, error) {
	type wire struct {
		Word  string      `json:"word"`
		Score interface{} `json:"score"`
	}
	w := wire{Word: m.Word}
	switch {
	case math.IsNaN(m.Score):
	case math.IsInf(m.Score, 1):
		w.Score = posInf
	case math.IsInf(m.Score, -1):
		w.Score = negInf
	default:
		w.Score = m.Score
	}
	return json.Marshal(w)
}

// UnmarshalJSON reverses MarshalJSON: null decodes as NaN, "+Inf" and "-Inf" as infinities.
func (m *Match) UnmarshalJSON(data []byte) error {
	var w struct {
		Word  string          `json:"word"`
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Word = w.Word
	switch raw := bytes.TrimSpace(w.Score); {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		m.Score = math.NaN()
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		switch s {
		case posInf:
			m.Score = math.Inf(1)
		case negInf:
			m.Score = math.Inf(-1)
		default:
			return fmt.Errorf("invalid score %q", s)
		}
	default:
		return json.Unmarshal(raw, &m.Score)
	}
	return nil
}
