package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/metrics"
	"github.com/Spok95/kindergarten/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every запускает fn раз в interval до отмены контекста раннера.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
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

// run — один прогон: паника не роняет процесс, а считается ошибкой джобы.
func (r *Runner) run(name string, fn Job) {
	start := time.Now()
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic in job %s: %v", name, p)
			}
		}()
		return fn(r.ctx)
	}()
	if err != nil {
		r.log.Error("job failed", zap.String("job", name), zap.Error(err))
		observability.CaptureErr(err)
	}
	metrics.ObserveJob(name, time.Since(start), err)
}
