package models

import "time"

// RankedResult is one completed ranking: the k best matches for a query label.
type RankedResult struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Metric     string    `json:"metric"`
	K          int       `json:"k"`
	Dissimilar bool      `json:"dissimilar,omitempty"`
	SourceID   string    `json:"source_id"`
	Matches    []Match   `json:"matches"`
	CreatedAt  time.Time `json:"created_at"`
}

// BatchItem is the outcome for one word of a batch. Exactly one of Result and Err is set.
type BatchItem struct {
	Label       string        `json:"label"`
	Result      *RankedResult `json:"result,omitempty"`
	Err         error         `json:"-"`
	Error       string        `json:"error,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// SimilarityResponse is the response for a similarity batch.
type SimilarityResponse struct {
	Items     []*BatchItem `json:"items"`
	QueryTime int64        `json:"query_time_ms"`
}

// TableStatus describes the currently published embeddings table.
type TableStatus struct {
	State    string    `json:"state"`
	Path     string    `json:"path,omitempty"`
	SourceID string    `json:"source_id,omitempty"`
	Words    int       `json:"words"`
	Features int       `json:"features"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}
