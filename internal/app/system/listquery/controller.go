// Package listquery holds the query state of a paginated, filtered,
// searchable list and issues backend fetches when that state changes.
//
// State transitions:
//   - SetKeyword resets the page to 1 and is debounced
//   - SetFilter changes one filter and leaves the page alone
//   - SetPage does nothing when page and size are unchanged
//   - Refetch re-issues the current query
//   - Invalidate makes the next Replace fetch even with an unchanged query
//
// Every fetch carries a generation number. Only the response of the latest
// fetch is applied; earlier ones are dropped with ErrStale. A fetch whose
// context is cancelled before it returns is dropped the same way. On fetch
// failure the previous items stay in place.
package listquery

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSuperseded is returned by SetKeyword when a newer keyword arrived
	// inside the debounce window.
	ErrSuperseded = errors.New("listquery: keyword superseded")

	// ErrStale is returned when a response arrived after a newer fetch
	// started, or after the caller's context was cancelled.
	ErrStale = errors.New("listquery: stale response dropped")

	// ErrNotReady is returned while the readiness guard reports false.
	ErrNotReady = errors.New("listquery: lookups not ready")
)

// DefaultDebounce is the keyword debounce window.
const DefaultDebounce = 250 * time.Millisecond

// Fetcher loads one page for q and returns the items and the backend total.
type Fetcher[T any] func(ctx context.Context, q Query) ([]T, int, error)

// Options configures a Controller.
type Options struct {
	Debounce time.Duration
	PageSize int

	// Ready gates fetches, typically on lookup tables having loaded.
	Ready func() bool

	Logger *zap.Logger
}

// Snapshot is a consistent copy of a controller's state.
type Snapshot[T any] struct {
	Query      Query
	Items      []T
	Total      int
	Loaded     bool
	Loading    bool
	Err        error
	Generation uint64
}

// Controller is safe for concurrent use.
type Controller[T any] struct {
	fetch Fetcher[T]
	opts  Options
	log   *zap.Logger

	mu      sync.Mutex
	q       Query
	items   []T
	total   int
	loaded  bool
	loading bool
	lastErr error
	gen     uint64 // latest fetch issued
	edits   uint64 // keyword edits seen
}

// New creates a Controller starting at page 1.
func New[T any](fetch Fetcher[T], opts Options) *Controller[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller[T]{
		fetch: fetch,
		opts:  opts,
		log:   log,
		q:     Query{Page: 1, Size: opts.PageSize},
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Query returns the current query state.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.Clone()
}

// SetKeyword waits out the debounce window, then sets the keyword, resets
// the page to 1 and fetches. When another SetKeyword arrives during the
// window this call returns ErrSuperseded without fetching.
func (c *Controller[T]) SetKeyword(ctx context.Context, keyword string) (Snapshot[T], error) {
	c.mu.Lock()
	c.edits++
	mine := c.edits
	c.mu.Unlock()

	timer := time.NewTimer(c.opts.Debounce)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return c.Snapshot(), ErrStale
	}

	c.mu.Lock()
	if c.edits != mine {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrSuperseded
	}
	changed := c.q.Keyword != keyword || c.q.Page != 1
	c.q.Keyword = keyword
	c.q.Page = 1
	skip := !changed && c.loaded
	c.mu.Unlock()

	if skip {
		return c.Snapshot(), nil
	}
	return c.run(ctx)
}

// SetFilter sets one filter ("" clears it) and fetches. The page is kept.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) (Snapshot[T], error) {
	c.mu.Lock()
	if c.q.Filters == nil {
		c.q.Filters = map[string]string{}
	}
	prev := c.q.Filters[name]
	if value == "" {
		delete(c.q.Filters, name)
	} else {
		c.q.Filters[name] = value
	}
	skip := prev == value && c.loaded
	c.mu.Unlock()

	if skip {
		return c.Snapshot(), nil
	}
	return c.run(ctx)
}

// SetPage moves to page with size. It is a no-op, with no fetch, when both
// equal the current values. size <= 0 keeps the current size.
func (c *Controller[T]) SetPage(ctx context.Context, page, size int) (Snapshot[T], error) {
	c.mu.Lock()
	if size <= 0 {
		size = c.q.Size
	}
	if page < 1 {
		page = 1
	}
	if page == c.q.Page && size == c.q.Size {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	c.q.Page, c.q.Size = page, size
	c.mu.Unlock()
	return c.run(ctx)
}

// Refetch re-issues the current query.
func (c *Controller[T]) Refetch(ctx context.Context) (Snapshot[T], error) {
	return c.run(ctx)
}

// Invalidate marks the loaded items out of date so the next Replace fetches
// even when its query is unchanged. Items stay visible until then.
func (c *Controller[T]) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

// Replace adopts q wholesale (a full page load carrying its state in the
// URL) and fetches when q differs from the current state or nothing has
// loaded yet.
func (c *Controller[T]) Replace(ctx context.Context, q Query) (Snapshot[T], error) {
	q = q.normalize(c.opts.PageSize)
	c.mu.Lock()
	same := c.q.Equal(q) && c.loaded
	c.q = q
	c.mu.Unlock()
	if same {
		return c.Snapshot(), nil
	}
	return c.run(ctx)
}

func (c *Controller[T]) run(ctx context.Context) (Snapshot[T], error) {
	if c.opts.Ready != nil && !c.opts.Ready() {
		return c.Snapshot(), ErrNotReady
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	q := c.q.Clone()
	c.loading = true
	c.mu.Unlock()

	items, total, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("dropping stale list response",
			zap.Uint64("generation", gen), zap.Uint64("latest", c.gen))
		return c.snapshotLocked(), ErrStale
	}
	c.loading = false
	if ctx.Err() != nil {
		c.log.Debug("dropping list response for cancelled request", zap.Uint64("generation", gen))
		return c.snapshotLocked(), ErrStale
	}
	if err != nil {
		c.lastErr = err
		return c.snapshotLocked(), err
	}
	c.items, c.total, c.loaded, c.lastErr = items, total, true, nil
	return c.snapshotLocked(), nil
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Query:      c.q.Clone(),
		Items:      c.items,
		Total:      c.total,
		Loaded:     c.loaded,
		Loading:    c.loading,
		Err:        c.lastErr,
		Generation: c.gen,
	}
}
