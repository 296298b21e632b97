package rowset

import (
	"context"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching query results. Implementations bring
// their own store (in-memory, Redis, ...). Cache failures are treated as
// misses; the engine never fails an operation on a cache error.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// WithCache installs a result cache on the entity. Load results are cached
// under the rendered SQL and the requested row window, Count results under
// the rendered SQL, and any write through the entity invalidates its
// table's entries.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(e *Entity) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// cachePayload is the msgpack-encoded snapshot of a load result.
type cachePayload struct {
	QueryRows int
	Rows      []map[string]string
}

func (e *Entity) cacheKey(query string) string {
	return e.desc.Table() + ":" + query
}

// loadKey carries the row window so loads of the same statement with
// different windows never share an entry.
func (e *Entity) loadKey(query string, index, count int) string {
	return e.desc.Table() + ":" + strconv.Itoa(index) + ":" + strconv.Itoa(count) + ":" + query
}

// loadCached populates the entity from a cached load result. All cached
// rows were persisted when stored.
func (e *Entity) loadCached(ctx context.Context, query string, index, count int) bool {
	if e.cache == nil {
		return false
	}
	data, err := e.cache.Get(ctx, e.loadKey(query, index, count))
	if err != nil || data == nil {
		return false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false
	}
	if len(payload.Rows) == 0 {
		return false
	}
	for _, values := range payload.Rows {
		r := newRow()
		for k, v := range values {
			r.values[k] = v
		}
		r.persisted = true
		e.rows = append(e.rows, r)
	}
	e.queryRows = payload.QueryRows
	return true
}

func (e *Entity) storeCached(ctx context.Context, query string, index, count int) {
	if e.cache == nil {
		return
	}
	payload := cachePayload{QueryRows: e.queryRows}
	for _, r := range e.rows {
		payload.Rows = append(payload.Rows, r.values)
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return
	}
	_ = e.cache.Set(ctx, e.loadKey(query, index, count), data, e.cacheTTL)
}

func (e *Entity) countCached(ctx context.Context, query string) (int, bool) {
	if e.cache == nil {
		return 0, false
	}
	data, err := e.cache.Get(ctx, e.cacheKey(query))
	if err != nil || data == nil {
		return 0, false
	}
	var n int
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return 0, false
	}
	return n, true
}

func (e *Entity) storeCachedCount(ctx context.Context, query string, n int) {
	if e.cache == nil {
		return
	}
	data, err := msgpack.Marshal(n)
	if err != nil {
		return
	}
	_ = e.cache.Set(ctx, e.cacheKey(query), data, e.cacheTTL)
}

func (e *Entity) invalidateCache(ctx context.Context) {
	if e.cache == nil {
		return
	}
	_ = e.cache.DeletePrefix(ctx, e.desc.Table()+":")
}
