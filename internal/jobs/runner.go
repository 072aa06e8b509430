package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/ctxutil"
	"github.com/Spok95/school-portal/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
	wg  sync.WaitGroup
}

func New(ctx context.Context, log *zap.Logger) *Runner { return &Runner{ctx: ctx, log: log} }

// Every запускает fn раз в interval до отмены контекста раннера.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

// Wait ждёт остановки всех задач.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) runOnce(name string, fn Job) {
	ctx := ctxutil.WithOp(r.ctx, "job."+name)
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic in job %s: %v", name, p)
			jobErrors.WithLabelValues(name).Inc()
			r.log.Error("job panic", zap.String("job", name), zap.Error(err))
			observability.CaptureCtx(ctx, err)
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	if err := fn(ctx); err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
		if ctx.Err() == nil {
			observability.CaptureCtx(ctx, err)
		}
	}
}
