package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPoolRunsAllTasks(t *testing.T) {
	var counter atomic.Int32

	p := NewPool(context.Background(), 2)
	for i := 0; i < 10; i++ {
		p.Go(func(ctx context.Context) error {
			counter.Add(1)
			return nil
		})
	}

	require.NoError(t, p.Wait())
	require.Equal(t, int32(10), counter.Load())
}

func TestNewPoolReturnsFirstErrorAndCancels(t *testing.T) {
	expectedErr := errors.New("boom")

	p := NewPool(context.Background(), 1)
	p.Go(func(ctx context.Context) error {
		return expectedErr
	})
	var sawCancel atomic.Bool
	p.Go(func(ctx context.Context) error {
		// Scheduled after the failure, so the pool context is already
		// canceled.
		sawCancel.Store(ctx.Err() != nil)
		return ctx.Err()
	})

	err := p.Wait()
	require.ErrorIs(t, err, expectedErr)
	require.True(t, sawCancel.Load())
}

func TestNewPoolHonorsParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(ctx, 2)
	p.Go(func(ctx context.Context) error {
		return ctx.Err()
	})

	require.ErrorIs(t, p.Wait(), context.Canceled)
}
