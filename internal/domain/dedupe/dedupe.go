// Package dedupe keeps the first record seen for each natural key and tracks
// imports in flight.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Index holds one item per natural key in first-seen order. Later inserts
// for a known key are ignored, never merged.
type Index[T any] struct {
	mu    sync.RWMutex
	pos   map[string]int
	items []T
	size  atomic.Int64
}

// NewIndex creates an empty index.
func NewIndex[T any](opts ...Option) *Index[T] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Index[T]{
		pos:   make(map[string]int, cfg.capacity),
		items: make([]T, 0, cfg.capacity),
	}
}

// Insert records item under key unless key is already present. It reports
// whether the item was stored.
func (ix *Index[T]) Insert(ctx context.Context, key string, item T) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.pos[key]; ok {
		return false
	}
	ix.pos[key] = len(ix.items)
	ix.items = append(ix.items, item)
	ix.size.Add(1)
	return true
}

// Get returns the item stored for key.
func (ix *Index[T]) Get(key string) (T, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	i, ok := ix.pos[key]
	if !ok {
		var zero T
		return zero, false
	}
	return ix.items[i], true
}

// Items returns a copy of the stored items in first-seen order.
func (ix *Index[T]) Items() []T {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]T, len(ix.items))
	copy(out, ix.items)
	return out
}

// Size returns the number of distinct keys.
func (ix *Index[T]) Size() int64 {
	return ix.size.Load()
}

// Guard refuses a second overlapping operation on the same key. It does not
// cancel the first one.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	size     atomic.Int64
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// SeenAndRecord marks key in flight. It returns true when key already was.
func (g *Guard) SeenAndRecord(ctx context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inflight[key]; ok {
		return true
	}
	g.inflight[key] = struct{}{}
	g.size.Add(1)
	return false
}

// Unrecord releases key.
func (g *Guard) Unrecord(ctx context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inflight[key]; ok {
		delete(g.inflight, key)
		g.size.Add(-1)
	}
}

// Size returns the number of keys in flight.
func (g *Guard) Size() int64 {
	return g.size.Load()
}

// Acquire marks key in flight and returns its release func. ok is false when
// key is already held.
func (g *Guard) Acquire(ctx context.Context, key string) (release func(), ok bool) {
	if g.SeenAndRecord(ctx, key) {
		return func() {}, false
	}
	var once sync.Once
	return func() { once.Do(func() { g.Unrecord(ctx, key) }) }, true
}
