// Package diffsync partitions an edited sub-collection against the copy
// loaded with the form.
//
// Rows without a persisted id, or whose id is not in the baseline, are
// added. Rows whose id is in the baseline are edited unconditionally, with
// no value comparison. Baseline rows missing from the submission are
// reported as Removed but are not sent: removal happens immediately through
// the per-row remove endpoint, so anything left here is only logged.
package diffsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Plan is the partition of a collection.
type Plan[T any] struct {
	Added   []T
	Edited  []T
	Removed []T
}

// Empty reports whether the plan has nothing to send.
func (p Plan[T]) Empty() bool { return len(p.Added) == 0 && len(p.Edited) == 0 }

// Partition splits current against baseline by id. id returns "" for
// rows that were never persisted.
func Partition[T any](current, baseline []T, id func(T) string) Plan[T] {
	base := make(map[string]bool, len(baseline))
	for _, b := range baseline {
		if k := id(b); k != "" {
			base[k] = true
		}
	}

	var p Plan[T]
	seen := make(map[string]bool, len(current))
	for _, c := range current {
		k := id(c)
		if k == "" || !base[k] {
			p.Added = append(p.Added, c)
			continue
		}
		seen[k] = true
		p.Edited = append(p.Edited, c)
	}
	for _, b := range baseline {
		if k := id(b); k != "" && !seen[k] {
			p.Removed = append(p.Removed, b)
		}
	}
	return p
}

// Ops sends one row.
type Ops[T any] struct {
	Create func(ctx context.Context, item T) error
	Update func(ctx context.Context, item T) error
}

// Apply sends the Added and Edited rows, all in parallel, and waits for
// every request. It returns the joined errors of the failed rows.
func Apply[T any](ctx context.Context, log *zap.Logger, name string, plan Plan[T], ops Ops[T]) error {
	if log == nil {
		log = zap.NewNop()
	}
	if len(plan.Removed) > 0 {
		log.Info("collection rows absent at submit were not removed",
			zap.String("collection", name), zap.Int("rows", len(plan.Removed)))
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	record := func(verb string, i int, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s %s row %d: %w", verb, name, i+1, err))
		mu.Unlock()
	}
	for i, it := range plan.Added {
		g.Go(func() error {
			record("create", i, ops.Create(ctx, it))
			return nil
		})
	}
	for i, it := range plan.Edited {
		g.Go(func() error {
			record("update", i, ops.Update(ctx, it))
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
