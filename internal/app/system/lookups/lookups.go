// Package lookups serves the backend's settings tables (membership tiers,
// listing categories, ...) that list filters and form selects are built from.
//
// Tables are cached with a TTL and concurrent loads of the same table are
// collapsed into one backend call. Ready reports whether every configured
// table has loaded at least once; list fetches wait on it.
package lookups

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader fetches one table from the backend.
type Loader func(ctx context.Context, table string) ([]models.LookupOption, error)

// Provider caches lookup tables.
type Provider struct {
	load   Loader
	tables []string
	cache  *expirable.LRU[string, []models.LookupOption]
	group  singleflight.Group
	log    *zap.Logger

	mu     sync.RWMutex
	loaded map[string]bool
}

// New creates a Provider for tables. ttl bounds how stale a cached table may be.
func New(load Loader, tables []string, ttl time.Duration, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	size := len(tables) + 8
	return &Provider{
		load:   load,
		tables: append([]string(nil), tables...),
		cache:  expirable.NewLRU[string, []models.LookupOption](size, nil, ttl),
		log:    log,
		loaded: make(map[string]bool, len(tables)),
	}
}

// Tables returns the configured table names.
func (p *Provider) Tables() []string { return append([]string(nil), p.tables...) }

// Warm loads every configured table concurrently. It returns the first
// error but keeps whatever loaded.
func (p *Provider) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range p.tables {
		g.Go(func() error {
			_, err := p.Options(gctx, t)
			return err
		})
	}
	return g.Wait()
}

// Options returns table's entries, loading it when not cached.
func (p *Provider) Options(ctx context.Context, table string) ([]models.LookupOption, error) {
	if opts, ok := p.cache.Get(table); ok {
		return opts, nil
	}

	v, err, shared := p.group.Do(table, func() (any, error) {
		opts, err := p.load(ctx, table)
		if err != nil {
			return nil, err
		}
		p.cache.Add(table, opts)
		p.mu.Lock()
		p.loaded[table] = true
		p.mu.Unlock()
		return opts, nil
	})
	if err != nil {
		p.log.Warn("lookup table load failed", zap.String("table", table), zap.Error(err))
		return nil, fmt.Errorf("load lookup %s: %w", table, err)
	}
	if shared {
		p.log.Debug("lookup load shared", zap.String("table", table))
	}
	return v.([]models.LookupOption), nil
}

// Ready reports whether every configured table has loaded at least once.
// Expiry of a cached copy does not make the provider unready again.
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range p.tables {
		if !p.loaded[t] {
			return false
		}
	}
	return true
}

// Invalidate drops a cached table, or every table when table is "".
func (p *Provider) Invalidate(table string) {
	if table == "" {
		p.cache.Purge()
		return
	}
	p.cache.Remove(table)
}

// Label returns the display label for value in table, or value itself when
// the table or entry is unavailable.
func (p *Provider) Label(ctx context.Context, table, value string) string {
	opts, err := p.Options(ctx, table)
	if err != nil {
		return value
	}
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
