package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrdered(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		items := []int{5, 1, 4, 2, 3}
		results, err := MapOrdered(context.Background(), items, 0, func(ctx context.Context, n int) (int, error) {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return n * 10, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []int{50, 10, 40, 20, 30}, results)
	})

	t.Run("empty input", func(t *testing.T) {
		results, err := MapOrdered(context.Background(), []string{}, 0, func(ctx context.Context, s string) (string, error) {
			return s, nil
		})

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("first error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		results, err := MapOrdered(context.Background(), []int{1, 2, 3}, 0, func(ctx context.Context, n int) (int, error) {
			if n == 2 {
				return 0, boom
			}
			return n, nil
		})

		assert.ErrorIs(t, err, boom)
		assert.Nil(t, results)
	})

	t.Run("respects limit", func(t *testing.T) {
		var inFlight, peak int32
		items := make([]int, 20)

		_, err := MapOrdered(context.Background(), items, 3, func(ctx context.Context, _ int) (int, error) {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return 0, nil
		})

		require.NoError(t, err)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := MapOrdered(ctx, []int{1, 2}, 0, func(ctx context.Context, n int) (int, error) {
			return n, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
