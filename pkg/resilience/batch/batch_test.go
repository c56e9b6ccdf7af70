package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_KeepsSubmissionOrder(t *testing.T) {
	results := Run(context.Background(), 5, 0, func(ctx context.Context, i int) (int, error) {
		// later indexes finish first
		time.Sleep(time.Duration(5-i) * 5 * time.Millisecond)
		return i * 10, nil
	})

	require.Len(t, results, 5)
	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, i*10, r.Value)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	errDay := errors.New("day unavailable")

	results := Run(context.Background(), 7, 0, func(ctx context.Context, i int) (string, error) {
		if i == 2 || i == 5 {
			return "", errDay
		}
		return string(rune('a' + i)), nil
	})

	assert.Equal(t, []string{"a", "b", "d", "e", "g"}, Successful(results))
	assert.Equal(t, []int{2, 5}, Failed(results))
	assert.ErrorIs(t, results[2].Err, errDay)
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak int32

	Run(context.Background(), 10, 3, func(ctx context.Context, i int) (struct{}, error) {
		current := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestSuccessful_AllFailed(t *testing.T) {
	results := []Result[int]{{Err: errors.New("x")}, {Err: errors.New("y")}}

	assert.Empty(t, Successful(results))
	assert.Equal(t, []int{0, 1}, Failed(results))
}
