// Package vector provides element-wise vector algebra and the similarity metrics built on it.
package vector

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when a binary operation gets vectors of different lengths.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Vector is a fixed-length sequence of features. Operations never alias their operands.
type Vector []float64

// Clone returns a copy of v.
func Clone(v Vector) Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether a and b have the same length and components.
func Equal(a, b Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func checkLengths(a, b Vector) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	return nil
}

func elementwise(a, b Vector, op func(x, y float64) float64) (Vector, error) {
	if err := checkLengths(a, b); err != nil {
		return nil, err
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = op(a[i], b[i])
	}
	return out, nil
}

// Add returns a + b.
func Add(a, b Vector) (Vector, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x + y })
}

// Subtract returns a - b.
func Subtract(a, b Vector) (Vector, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x - y })
}

// Multiply returns the element-wise product of a and b.
func Multiply(a, b Vector) (Vector, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x * y })
}

// Divide returns the element-wise quotient a / b. A zero divisor component yields
// +Inf, -Inf or NaN in that position.
func Divide(a, b Vector) (Vector, error) {
	return elementwise(a, b, func(x, y float64) float64 { return x / y })
}

// Square returns v multiplied element-wise by itself.
func Square(v Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * x
	}
	return out
}

// Sum returns the sum of all components of v.
func Sum(v Vector) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// DotProduct returns the sum of the element-wise product of a and b.
func DotProduct(a, b Vector) (float64, error) {
	m, err := Multiply(a, b)
	if err != nil {
		return 0, err
	}
	return Sum(m), nil
}

// EuclideanDistanceNoSqrt returns the squared Euclidean distance between a and b.
func EuclideanDistanceNoSqrt(a, b Vector) (float64, error) {
	d, err := Subtract(a, b)
	if err != nil {
		return 0, err
	}
	return Sum(Square(d)), nil
}

// EuclideanDistance returns the Euclidean (L2) distance between a and b.
func EuclideanDistance(a, b Vector) (float64, error) {
	d, err := EuclideanDistanceNoSqrt(a, b)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(d), nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// When either vector is all zeros the result is NaN; no error is reported for it.
func CosineSimilarity(a, b Vector) (float64, error) {
	dot, err := DotProduct(a, b)
	if err != nil {
		return 0, err
	}
	return dot / math.Sqrt(Sum(Square(a))*Sum(Square(b))), nil
}
