package store

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/cpusched/service/dao"
)

// MemoryStore is a generic in-memory dao.Service. Keys are taken from the
// entity with keySelector; List honours an optional filter and ordering.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	filter      func(*T, []*dao.Parameter) bool
	less        func(a, b *T) bool
}

// Option customises a MemoryStore
type Option[K comparable, T any] func(s *MemoryStore[K, T])

// WithFilter sets the predicate List applies to each record
func WithFilter[K comparable, T any](filter func(*T, []*dao.Parameter) bool) Option[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.filter = filter
	}
}

// WithOrder sorts List results with less
func WithOrder[K comparable, T any](less func(a, b *T) bool) Option[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.less = less
	}
}

// NewMemoryStore creates a store keyed by keySelector
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, opts ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Save stores or overwrites a record
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Load returns the record stored under key or dao.ErrNotFound
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	var zero K
	if key == zero {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

// Delete removes the record stored under key or returns dao.ErrNotFound
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns the records matching parameters
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.filter != nil && !s.filter(v, parameters) {
			continue
		}
		out = append(out, v)
	}
	s.mu.RUnlock()
	if s.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return s.less(out[i], out[j]) })
	}
	return out, nil
}

// Len returns the number of stored records
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)
