// internal/app/system/workers/sessionsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiredCloser ends sessions whose expiry has passed. *sessions.Store
// satisfies it.
type ExpiredCloser interface {
	CloseExpired(ctx context.Context) (int64, error)
}

// SessionSweep is a background worker that marks expired console sessions
// as ended.
type SessionSweep struct {
	sessions ExpiredCloser
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewSessionSweep creates the worker. It does nothing until Start.
func NewSessionSweep(store ExpiredCloser, logger *zap.Logger, interval time.Duration) *SessionSweep {
	return &SessionSweep{
		sessions: store,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *SessionSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("session sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SessionSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("session sweep worker stopped")
}

func (w *SessionSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass.
func (w *SessionSweep) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.sessions.CloseExpired(ctx)
	if err != nil {
		w.log.Error("failed to close expired sessions", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("closed expired sessions", zap.Int64("count", count))
	}
}
