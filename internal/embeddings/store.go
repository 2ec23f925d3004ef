package embeddings

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/metrics"
)

// State is the load lifecycle of a Store.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Store publishes the current table. Readers get the table without locking; a load
// builds a new table and swaps it in only on success, so a failed load leaves the
// previous table in place.
type Store struct {
	mu        sync.Mutex // serializes loads
	table     atomic.Pointer[Table]
	state     atomic.Int32
	logger    *zap.Logger
	loadOpts  []LoadOption
	listeners []func(*Table)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for load events.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoadOptions sets options applied to every load (progress, row limit).
func WithLoadOptions(opts ...LoadOption) StoreOption {
	return func(s *Store) { s.loadOpts = append(s.loadOpts, opts...) }
}

// NewStore returns an empty store in the Unloaded state.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnPublish registers fn to be called with every newly published table. Register
// listeners before the first load.
func (s *Store) OnPublish(fn func(*Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current lifecycle state.
func (s *Store) State() State { return State(s.state.Load()) }

// Table returns the published table, or ErrNotLoaded.
func (s *Store) Table() (*Table, error) {
	t := s.table.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// Load reads path and publishes the result. On failure the previously published
// table, if any, stays current and the error is returned.
func (s *Store) Load(path string, opts ...LoadOption) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Store(int32(StateLoading))
	start := time.Now()

	all := make([]LoadOption, 0, len(s.loadOpts)+len(opts)+1)
	all = append(all, WithLogger(s.logger))
	all = append(all, s.loadOpts...)
	all = append(all, opts...)

	t, err := Load(path, all...)
	metrics.TableLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("error").Inc()
		if s.table.Load() != nil {
			s.state.Store(int32(StateLoaded))
			s.logger.Warn("reload failed, keeping previous table", zap.String("path", path), zap.Error(err))
		} else {
			s.state.Store(int32(StateUnloaded))
		}
		return nil, err
	}

	s.publishLocked(t)
	metrics.TableLoadsTotal.WithLabelValues("ok").Inc()
	return t, nil
}

// Publish makes t the current table.
func (s *Store) Publish(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(t)
}

func (s *Store) publishLocked(t *Table) {
	s.table.Store(t)
	s.state.Store(int32(StateLoaded))
	metrics.TableWords.Set(float64(t.WordCount()))
	metrics.TableFeatures.Set(float64(t.FeatureCount()))
	for _, fn := range s.listeners {
		fn(t)
	}
}
