package vector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned by ParseMetric for names outside the metric set.
var ErrUnknownMetric = errors.New("unknown similarity metric")

// Metric is a named scoring strategy with a fixed polarity.
// The zero value is not a usable metric; use one of the package-level metrics.
type Metric struct {
	name                string
	score               func(a, b Vector) (float64, error)
	higherIsMoreSimilar bool
}

// The closed set of metrics, in menu order.
var (
	DotProductMetric              = Metric{name: "dot_product", score: DotProduct, higherIsMoreSimilar: true}
	EuclideanDistanceNoSqrtMetric = Metric{name: "euclidean_distance_no_sqrt", score: EuclideanDistanceNoSqrt}
	EuclideanDistanceMetric       = Metric{name: "euclidean_distance", score: EuclideanDistance}
	CosineSimilarityMetric        = Metric{name: "cosine_similarity", score: CosineSimilarity, higherIsMoreSimilar: true}
)

// DefaultMetric is used when no metric is configured.
var DefaultMetric = CosineSimilarityMetric

// Metrics returns every metric in menu order (shortcut 1 is the first element).
func Metrics() []Metric {
	return []Metric{
		DotProductMetric,
		EuclideanDistanceNoSqrtMetric,
		EuclideanDistanceMetric,
		CosineSimilarityMetric,
	}
}

// Name returns the canonical snake_case name.
func (m Metric) Name() string { return m.name }

// String returns the upper-case display name, e.g. COSINE_SIMILARITY.
func (m Metric) String() string { return strings.ToUpper(m.name) }

// HigherIsMoreSimilar reports the metric's polarity.
func (m Metric) HigherIsMoreSimilar() bool { return m.higherIsMoreSimilar }

// IsZero reports whether m is the zero Metric.
func (m Metric) IsZero() bool { return m.score == nil }

// Score compares a and b under the metric.
func (m Metric) Score(a, b Vector) (float64, error) {
	if m.score == nil {
		return 0, fmt.Errorf("%w: zero metric", ErrUnknownMetric)
	}
	return m.score(a, b)
}

// WantMax reports whether a query in the given direction must collect the largest scores.
func (m Metric) WantMax(wantSimilar bool) bool {
	return wantSimilar == m.higherIsMoreSimilar
}

// ParseMetric resolves a metric from its canonical name, its upper-case display name,
// the cosine_distance alias, or a menu shortcut ("1".."4").
func ParseMetric(s string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "1", "dot_product", "dot":
		return DotProductMetric, nil
	case "2", "euclidean_distance_no_sqrt":
		return EuclideanDistanceNoSqrtMetric, nil
	case "3", "euclidean_distance", "euclidean":
		return EuclideanDistanceMetric, nil
	case "4", "cosine_similarity", "cosine_distance", "cosine":
		return CosineSimilarityMetric, nil
	}
	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}
