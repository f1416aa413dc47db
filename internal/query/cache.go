// Package query caches the results of remote reads by key. Entries go stale
// after a fixed time, concurrent reads of the same key share one request,
// and entries can be invalidated by key prefix.
package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a successful result is served without
// refetching.
const DefaultStaleTime = 5 * time.Second

// Fetcher loads the value for one key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Snapshot is the observable state of one key.
type Snapshot[T any] struct {
	Data      T
	HasData   bool
	Err       error
	Fetching  bool
	Stale     bool
	UpdatedAt time.Time
}

// Loading reports whether there is nothing to show yet and a fetch is
// running.
func (s Snapshot[T]) Loading() bool {
	return !s.HasData && s.Fetching
}

type entry[T any] struct {
	key         Key
	data        T
	hasData     bool
	err         error
	fetching    bool
	updatedAt   time.Time
	invalidated bool
	gen         int // bumped on invalidation
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	staleTime time.Duration
	now       func() time.Time
}

// WithStaleTime sets how long results stay fresh.
func WithStaleTime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.staleTime = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Cache is safe for concurrent use.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	group   singleflight.Group

	staleTime time.Duration
	now       func() time.Time
}

// New creates an empty cache.
func New[T any](opts ...Option) *Cache[T] {
	o := options{staleTime: DefaultStaleTime, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		entries:   make(map[string]*entry[T]),
		staleTime: o.staleTime,
		now:       o.now,
	}
}

// StaleTime returns the configured freshness window.
func (c *Cache[T]) StaleTime() time.Duration {
	return c.staleTime
}

func (c *Cache[T]) entryLocked(key Key) *entry[T] {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		e = &entry[T]{key: key}
		c.entries[k] = e
	}
	return e
}

func (c *Cache[T]) staleLocked(e *entry[T]) bool {
	if !e.hasData || e.invalidated {
		return true
	}
	return c.now().Sub(e.updatedAt) >= c.staleTime
}

func (c *Cache[T]) freshLocked(e *entry[T]) bool {
	return e.hasData && e.err == nil && !c.staleLocked(e)
}

// Start marks key as fetching and reports whether the caller should issue
// a fetch. It returns false when the entry is fresh or a fetch is already
// running. Calling Start from the UI loop makes Fetching visible before
// the fetch goroutine runs.
func (c *Cache[T]) Start(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if e.fetching || c.freshLocked(e) {
		return false
	}
	e.fetching = true
	return true
}

// Fetch returns the cached value for key when it is fresh. Otherwise it
// calls fn, sharing the call with any concurrent Fetch of the same key,
// and stores the outcome. On error previously cached data is kept.
func (c *Cache[T]) Fetch(ctx context.Context, key Key, fn Fetcher[T]) (T, error) {
	k := key.String()

	c.mu.Lock()
	e := c.entryLocked(key)
	if c.freshLocked(e) {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	e.fetching = true
	gen := e.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(k, func() (any, error) {
		return fn(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	e = c.entryLocked(key)
	e.fetching = false
	if err != nil {
		e.err = err
		var zero T
		return zero, err
	}

	data, _ := v.(T)
	e.data = data
	e.hasData = true
	e.err = nil
	e.updatedAt = c.now()
	// A result that raced an invalidation is shown but stays stale.
	e.invalidated = e.gen != gen
	return data, nil
}

// Snapshot returns the current state of key without fetching.
func (c *Cache[T]) Snapshot(key Key) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot[T]{Stale: true}
	}
	return Snapshot[T]{
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		Fetching:  e.fetching,
		Stale:     c.staleLocked(e),
		UpdatedAt: e.updatedAt,
	}
}

// Seed stores data for key as if it had just been fetched.
func (c *Cache[T]) Seed(key Key, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	e.data = data
	e.hasData = true
	e.err = nil
	e.updatedAt = c.now()
	e.invalidated = false
}

// InvalidatePrefix marks every entry whose key starts with prefix as stale.
// Cached data stays visible until the next fetch replaces it. It returns
// the number of entries invalidated.
func (c *Cache[T]) InvalidatePrefix(prefix ...any) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix...) {
			e.invalidated = true
			e.gen++
			n++
		}
	}
	return n
}

// Remove drops key from the cache.
func (c *Cache[T]) Remove(key Key) {
	c.mu.Lock()
	delete(c.entries, key.String())
	c.mu.Unlock()
}

// Len returns the number of cached keys.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
