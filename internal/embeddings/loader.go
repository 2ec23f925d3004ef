package embeddings

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/fileid"
	"github.com/hyperjump/kotoba/internal/vector"
	"github.com/hyperjump/kotoba/pkg/utils"
)

// MaxRows is the largest number of rows a table accepts.
const MaxRows = math.MaxInt32 - 1

const maxLineBytes = 16 << 20

// delimiters are tried in order against the first line.
var delimiters = []string{", ", ",", " "}

// LoadOption configures a load.
type LoadOption func(*loader)

// WithLogger sets the logger used to report load results.
func WithLogger(l *zap.Logger) LoadOption {
	return func(ld *loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithProgress registers fn to be called after every parsed row with the 1-based row
// number and the total row count (0 when the total is not known in advance).
func WithProgress(fn func(row, total int)) LoadOption {
	return func(ld *loader) { ld.progress = fn }
}

// WithMaxRows lowers the row limit below MaxRows.
func WithMaxRows(n int) LoadOption {
	return func(ld *loader) {
		if n > 0 && n < MaxRows {
			ld.maxRows = n
		}
	}
}

type loader struct {
	logger   *zap.Logger
	progress func(row, total int)
	maxRows  int
}

func newLoader(opts []LoadOption) *loader {
	ld := &loader{logger: zap.NewNop(), maxRows: MaxRows}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load reads an embeddings file: one row per word, the word followed by its features,
// all separated by the delimiter detected on the first line. Any failure is a *LoadError.
func Load(path string, opts ...LoadOption) (*Table, error) {
	ld := newLoader(opts)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	total, err := countLines(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if total > ld.maxRows {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, total, ld.maxRows)}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	t, err := ld.parse(f, path, total)
	if err != nil {
		ld.logger.Debug("embeddings load failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	t.path = path
	t.sourceID = fileid.SourceID(abs, info.Size(), info.ModTime())
	ld.logger.Info("embeddings loaded",
		zap.String("path", path),
		zap.Int("words", t.WordCount()),
		zap.Int("features", t.FeatureCount()),
		zap.Duration("duration", time.Since(start)))
	return t, nil
}

// LoadReader parses embeddings from r. name is used as the table path and in errors.
func LoadReader(r io.Reader, name string, opts ...LoadOption) (*Table, error) {
	ld := newLoader(opts)
	t, err := ld.parse(r, name, 0)
	if err != nil {
		return nil, err
	}
	t.path = name
	t.sourceID = fileid.SourceID(name, int64(t.WordCount()), t.loadedAt)
	ld.logger.Debug("embeddings parsed",
		zap.String("name", name),
		zap.Int("words", t.WordCount()),
		zap.Int("features", t.FeatureCount()))
	return t, nil
}

func (ld *loader) parse(r io.Reader, path string, total int) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	t := &Table{
		words:   make([]string, 0, total),
		vectors: make([]vector.Vector, 0, total),
	}

	var delim string
	line := 0
	for sc.Scan() {
		line++
		if line > ld.maxRows {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("%w: limit %d", ErrTooManyRows, ld.maxRows)}
		}
		text := strings.TrimSuffix(sc.Text(), "\r")

		if line == 1 {
			d, n, err := detectDelimiter(text)
			if err != nil {
				return nil, &LoadError{Path: path, Line: line, Err: err}
			}
			if n-1 < 1 {
				return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("%w: no features", ErrMalformedHeader)}
			}
			delim = d
			t.features = n - 1
			ld.logger.Debug("detected delimiter", zap.String("path", path), zap.String("delimiter", strconv.Quote(delim)), zap.Int("features", t.features))
		}

		fields := strings.Split(text, delim)
		if len(fields) != t.features+1 {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("%w: got %d fields, want %d", ErrRowShapeMismatch, len(fields), t.features+1)}
		}

		vec := make(vector.Vector, t.features)
		for j := 1; j < len(fields); j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[j]), 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, &LoadError{Path: path, Line: line, Field: j + 1, Err: fmt.Errorf("%w: %q", ErrNumberFormat, fields[j])}
			}
			vec[j-1] = v
		}
		t.words = append(t.words, fields[0])
		t.vectors = append(t.vectors, vec)

		if ld.progress != nil {
			ld.progress(line, total)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Path: path, Line: line + 1, Err: err}
	}
	if line == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: empty source", ErrMalformedHeader)}
	}
	t.loadedAt = time.Now()
	return t, nil
}

// detectDelimiter returns the first candidate that splits line into more than one
// field, together with that field count.
func detectDelimiter(line string) (string, int, error) {
	for _, d := range delimiters {
		if n := strings.Count(line, d) + 1; n > 1 {
			return d, n, nil
		}
	}
	return "", 0, fmt.Errorf("%w: first line %q", ErrUnknownDelimiter, utils.Truncate(line, 40))
}

func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 64*1024)
	count := 0
	var last byte = '\n'
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}
