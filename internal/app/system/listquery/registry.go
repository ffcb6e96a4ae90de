package listquery

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry keeps one Controller per (session, list) so list state survives
// between requests. Idle controllers expire after ttl.
type Registry[T any] struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Controller[T]]
	mk    func() *Controller[T]
}

// NewRegistry creates a Registry holding up to size controllers.
func NewRegistry[T any](size int, ttl time.Duration, mk func() *Controller[T]) *Registry[T] {
	if size <= 0 {
		size = 1024
	}
	return &Registry[T]{
		cache: expirable.NewLRU[string, *Controller[T]](size, nil, ttl),
		mk:    mk,
	}
}

// For returns the controller for sessionID and list, creating it when needed.
func (r *Registry[T]) For(sessionID, list string) *Controller[T] {
	key := sessionID + "\x00" + list
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cache.Get(key); ok {
		return c
	}
	c := r.mk()
	r.cache.Add(key, c)
	return c
}

// Drop forgets the controller for sessionID and list.
func (r *Registry[T]) Drop(sessionID, list string) {
	r.cache.Remove(sessionID + "\x00" + list)
}

// Len returns the number of live controllers.
func (r *Registry[T]) Len() int { return r.cache.Len() }
