package embeddings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrWordNotFound is returned when a word is not in the table.
	ErrWordNotFound = errors.New("word not found")
	// ErrUnknownDelimiter is returned when no candidate delimiter splits the first line.
	ErrUnknownDelimiter = errors.New("unknown delimiter")
	// ErrMalformedHeader is returned for an empty source or a first row without features.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrRowShapeMismatch is returned when a row's field count differs from the first row's.
	ErrRowShapeMismatch = errors.New("row has a different format")
	// ErrNumberFormat is returned for a feature that is not a valid number.
	ErrNumberFormat = errors.New("invalid number")
	// ErrTooManyRows is returned when the source has more rows than a table can index.
	ErrTooManyRows = errors.New("too many rows")
	// ErrNotLoaded is returned when no table has been published yet.
	ErrNotLoaded = errors.New("embeddings not loaded")
)

// LoadError reports where a load failed. Line and Field are 1-based; zero means not applicable.
type LoadError struct {
	Path  string
	Line  int
	Field int
	Err   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field > 0 {
		fmt.Fprintf(&b, ", field %d", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

var loadKinds = []error{
	ErrUnknownDelimiter,
	ErrMalformedHeader,
	ErrRowShapeMismatch,
	ErrNumberFormat,
	ErrTooManyRows,
	fs.ErrNotExist,
	fs.ErrPermission,
}

// Summary describes the failure by kind and position only. Unlike Error it never
// includes the path or any text read from the file.
func (e *LoadError) Summary() string {
	kind := "read error"
	for _, k := range loadKinds {
		if errors.Is(e.Err, k) {
			kind = k.Error()
			break
		}
	}
	var b strings.Builder
	b.WriteString("failed to load embeddings")
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field > 0 {
		fmt.Fprintf(&b, ", field %d", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(kind)
	return b.String()
}
