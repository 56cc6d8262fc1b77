package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBackgroundWorkers = 8
	defaultBackgroundTimeout = time.Second * 5
)

// backgroundPool runs fire-and-forget tasks on a bounded number of goroutines.
// Task errors and panics stop at the task boundary and are only logged.
type backgroundPool struct {
	logger  *zap.Logger
	group   *errgroup.Group
	timeout time.Duration
}

func newBackgroundPool(logger *zap.Logger, workers int, timeout time.Duration) *backgroundPool {
	if workers <= 0 {
		workers = defaultBackgroundWorkers
	}
	if timeout <= 0 {
		timeout = defaultBackgroundTimeout
	}

	group := new(errgroup.Group)
	group.SetLimit(workers)

	return &backgroundPool{
		logger:  logger,
		group:   group,
		timeout: timeout,
	}
}

// Go schedules task without waiting for it. The task gets a context that keeps
// ctx's values but not its cancellation. When every worker is busy the task is
// dropped and false is returned.
func (p *backgroundPool) Go(ctx context.Context, name string, task func(ctx context.Context) error) bool {
	taskCtx := context.WithoutCancel(ctx)

	started := p.group.TryGo(func() error {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Sugar().Errorf("background task(%s) panicked: %v", name, r)
			}
		}()

		ctx, cancel := context.WithTimeout(taskCtx, p.timeout)
		defer cancel()

		if err := task(ctx); err != nil {
			p.logger.Sugar().Warnf("background task(%s) failed: %s", name, err.Error())
		}
		return nil
	})
	if !started {
		p.logger.Sugar().Warnf("background task(%s) dropped: all workers are busy", name)
	}

	return started
}

// Wait blocks until every scheduled task has finished.
func (p *backgroundPool) Wait() {
	_ = p.group.Wait()
}
