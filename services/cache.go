package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultStaleTime matches the query client defaults of the old frontend.
const DefaultStaleTime = 5 * time.Minute

// QueryCache is the process-wide cache of backend query results. One
// instance is created at start-up and shared by every session; keys are
// session-scoped through SessionKey.
//
// Each fetch takes a ticket from Begin. Commit only stores a result whose
// ticket is still the newest issued for that key, so a slow response can
// never overwrite the answer to a request issued after it.
type QueryCache struct {
	store *cache.Cache

	mu      sync.Mutex
	seq     uint64
	tickets map[string]uint64
}

func NewQueryCache(staleTime time.Duration) *QueryCache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &QueryCache{
		store:   cache.New(staleTime, 2*staleTime),
		tickets: make(map[string]uint64),
	}
}

// SessionKey builds "session/<id>/<parts...>".
func SessionKey(sessionID string, parts ...string) string {
	return "session/" + sessionID + "/" + strings.Join(parts, "/")
}

func (q *QueryCache) Get(key string) (any, bool) {
	return q.store.Get(key)
}

// Begin issues a new ticket for key, superseding every earlier one.
func (q *QueryCache) Begin(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	q.tickets[key] = q.seq
	return q.seq
}

// Latest reports whether ticket is the newest issued for key.
func (q *QueryCache) Latest(key string, ticket uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tickets[key] == ticket
}

// Commit stores value when ticket is still current and reports whether it did.
func (q *QueryCache) Commit(key string, ticket uint64, value any) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tickets[key] != ticket {
		return false
	}
	q.store.Set(key, value, cache.DefaultExpiration)
	return true
}

// Invalidate drops every entry whose key starts with prefix.
func (q *QueryCache) Invalidate(prefix string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for key := range q.store.Items() {
		if strings.HasPrefix(key, prefix) {
			q.store.Delete(key)
		}
	}
}

// Fetch returns the cached value for key or runs fn under a fresh ticket.
// The caller always gets fn's own result; it is only cached if no newer
// fetch for the same key was issued meanwhile.
func Fetch[T any](ctx context.Context, q *QueryCache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := q.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	ticket := q.Begin(key)
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	q.Commit(key, ticket, v)
	return v, nil
}
