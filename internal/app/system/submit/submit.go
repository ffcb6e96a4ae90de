// Package submit sequences the requests of one Add/Edit submission.
//
// The primary mutation runs first; when it fails nothing else is sent.
// The secondary requests (file uploads, collection batches) then run in
// parallel and are all awaited. A failing secondary does not stop the
// others and nothing is rolled back: the entity keeps whatever completed.
package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Step is one request of a submission.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Primary creates or updates the entity and returns its id.
type Primary func(ctx context.Context) (id string, err error)

// Secondaries builds the follow-up steps once the entity id is known.
type Secondaries func(id string) []Step

// StepError records a failed secondary step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }
func (e *StepError) Unwrap() error { return e.Err }

// ErrPrimary wraps a failure of the primary mutation.
var ErrPrimary = errors.New("primary request failed")

// Result describes a finished submission.
type Result struct {
	ID        string
	Completed []string
	Failed    []*StepError
}

// Err joins the failed steps, or returns nil when everything completed.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Run executes primary and then every secondary step in parallel.
func Run(ctx context.Context, log *zap.Logger, primary Primary, secondaries Secondaries) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	id, err := primary(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrPrimary, err)
	}
	res := Result{ID: id}
	if secondaries == nil {
		return res, nil
	}
	steps := secondaries(id)
	if len(steps) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	// A plain errgroup.Group: one failure must not cancel its siblings.
	var g errgroup.Group
	for _, s := range steps {
		g.Go(func() error {
			err := s.Run(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("secondary request failed",
					zap.String("id", id), zap.String("step", s.Name), zap.Error(err))
				res.Failed = append(res.Failed, &StepError{Step: s.Name, Err: err})
				return nil
			}
			res.Completed = append(res.Completed, s.Name)
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("submission finished",
		zap.String("id", id),
		zap.Int("completed", len(res.Completed)),
		zap.Int("failed", len(res.Failed)))
	return res, res.Err()
}
