// Package jobs runs periodic background work until the root context ends.
package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
	wg  sync.WaitGroup
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log.Named("jobs")}
}

// Every runs fn on each tick of interval. A non-positive interval disables the job.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	r.schedule(interval, name, fn, false)
}

// Now runs fn once immediately, then on each tick.
func (r *Runner) Now(interval time.Duration, name string, fn Job) {
	r.schedule(interval, name, fn, true)
}

func (r *Runner) schedule(interval time.Duration, name string, fn Job, immediate bool) {
	if interval <= 0 {
		r.log.Info("job disabled", zap.String("job", name))
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if immediate {
			r.run(name, fn)
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.run(name, fn)
			}
		}
	}()
}

func (r *Runner) run(name string, fn Job) {
	start := time.Now()
	if err := fn(r.ctx); err != nil && r.ctx.Err() == nil {
		jobErrors.WithLabelValues(name).Inc()
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	}
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// Wait blocks until every job goroutine has returned after cancellation.
func (r *Runner) Wait() { r.wg.Wait() }
