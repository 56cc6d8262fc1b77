package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBackgroundPool_DropsWhenBusy(t *testing.T) {
	pool := newBackgroundPool(zap.NewNop(), 1, time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	if !pool.Go(context.Background(), "blocker", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}) {
		t.Fatal("first task should start")
	}
	<-started

	var ran atomic.Bool
	if pool.Go(context.Background(), "dropped", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}) {
		t.Error("task scheduled on a saturated pool")
	}

	close(release)
	pool.Wait()

	if ran.Load() {
		t.Error("dropped task ran")
	}
	if !pool.Go(context.Background(), "after", func(ctx context.Context) error { return nil }) {
		t.Error("pool should accept work once a worker is free")
	}
	pool.Wait()
}

func TestBackgroundPool_ContainsFailures(t *testing.T) {
	pool := newBackgroundPool(zap.NewNop(), 2, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	var sawDeadline atomic.Bool

	pool.Go(ctx, "panics", func(ctx context.Context) error { panic("boom") })
	pool.Go(ctx, "fails", func(ctx context.Context) error { return errors.New("failed") })
	pool.Wait()

	cancel()
	pool.Go(ctx, "outlives request", func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return nil
	})
	pool.Wait()

	if !sawDeadline.Load() {
		t.Error("task should ignore the caller's cancellation and stop at its own timeout")
	}
}
