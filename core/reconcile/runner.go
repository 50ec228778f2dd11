package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the pause between the end of one cycle and the start of the next.
const DefaultInterval = time.Hour

// Lease guards a cycle against concurrent runs by other processes.
type Lease interface {
	// TryAcquire reports whether this process now holds the lease.
	TryAcquire(ctx context.Context) (bool, error)

	// Release gives the lease up.
	Release(ctx context.Context) error
}

// Renewer is a Lease whose expiry can be pushed back while a cycle runs.
type Renewer interface {
	// Renew extends the lease and reports whether this process still holds it.
	Renew(ctx context.Context) (bool, error)
}

// RunnerConfig controls the collection loop.
type RunnerConfig struct {
	// Interval is the pause after each cycle, whatever its outcome.
	Interval time.Duration

	// RenewEvery is the renewal period for a lease that implements Renewer.
	// Zero disables renewal.
	RenewEvery time.Duration
}

// Runner repeats cycles until its context is cancelled.
type Runner struct {
	reconciler *Reconciler
	interval   time.Duration
	renewEvery time.Duration
	lease      Lease
	recorder   CycleRecorder
	wait       func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// NewRunner creates a Runner. When the reconciler's store implements
// CycleRecorder, every finished cycle is recorded.
func NewRunner(reconciler *Reconciler, cfg RunnerConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	runner := &Runner{
		reconciler: reconciler,
		interval:   interval,
		renewEvery: cfg.RenewEvery,
		wait:       sleep,
		logger:     logger,
	}
	if recorder, ok := reconciler.store.(CycleRecorder); ok {
		runner.recorder = recorder
	}
	return runner
}

// WithLease makes every cycle conditional on holding the lease.
func (r *Runner) WithLease(lease Lease) *Runner {
	r.lease = lease
	return r
}

// WithWait replaces the inter-cycle sleep.
func (r *Runner) WithWait(wait func(ctx context.Context, d time.Duration) error) *Runner {
	r.wait = wait
	return r
}

// Run loops until ctx is cancelled. Cycle failures are logged and never end the loop.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Collector started", zap.Duration("interval", r.interval))

	for {
		r.RunOnce(ctx)

		if err := r.wait(ctx, r.interval); err != nil {
			r.logger.Info("Collector stopped")
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// RunOnce runs a single guarded and recorded cycle. It returns nil when the
// lease is held elsewhere.
func (r *Runner) RunOnce(ctx context.Context) *Report {
	if r.lease != nil {
		held, err := r.lease.TryAcquire(ctx)
		if err != nil {
			r.logger.Error("Cycle lease unavailable, skipping cycle", zap.Error(err))
			return nil
		}
		if !held {
			r.logger.Info("Cycle lease held by another collector, skipping cycle")
			return nil
		}
		defer func() {
			if err := r.lease.Release(context.WithoutCancel(ctx)); err != nil {
				r.logger.Warn("Failed to release cycle lease", zap.Error(err))
			}
		}()
	}

	cycleCtx := ctx
	if renewer, ok := r.lease.(Renewer); ok && r.renewEvery > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			r.keepLease(cycleCtx, renewer, cancel)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	report, err := r.reconciler.RunCycle(cycleCtx)
	if err != nil {
		r.logger.Error("Cycle failed", zap.String("status", string(report.Status)), zap.Error(err))
	}

	if r.recorder != nil {
		if err := r.recorder.RecordCycle(context.WithoutCancel(ctx), *report); err != nil {
			r.logger.Warn("Failed to record cycle", zap.Error(err))
		}
	}
	return report
}

// keepLease renews the lease until ctx ends. Losing the lease cancels the cycle.
func (r *Runner) keepLease(ctx context.Context, renewer Renewer, interrupt context.CancelFunc) {
	ticker := time.NewTicker(r.renewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := renewer.Renew(ctx)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warn("Failed to renew cycle lease", zap.Error(err))
				}
				continue
			}
			if !held {
				r.logger.Error("Cycle lease lost, interrupting cycle")
				interrupt()
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
