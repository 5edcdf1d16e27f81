package parallel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(ctx context.Context) (int, error) { return 1, nil }

func TestRun_Success(t *testing.T) {
	tasks := []Task[int]{
		{Name: "task1", Fn: ok},
		{Name: "task2", Fn: ok},
		{Name: "task3", Fn: ok},
	}

	results := Run(context.Background(), tasks, 4, nil)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK, r.Name)
		assert.NoError(t, r.Err, r.Name)
		assert.Equal(t, 1, r.Value, r.Name)
	}
}

func TestRun_WithErrors(t *testing.T) {
	tasks := []Task[string]{
		{Name: "ok-task", Fn: func(context.Context) (string, error) { return "fine", nil }},
		{Name: "fail-task", Fn: func(context.Context) (string, error) { return "partial", fmt.Errorf("simulated failure") }},
	}

	results := Run(context.Background(), tasks, 4, nil)
	require.Len(t, results, 2)

	// Results should be in order
	assert.True(t, results[0].OK)
	assert.Equal(t, "fine", results[0].Value)
	assert.False(t, results[1].OK)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "partial", results[1].Value)
}

func TestRun_Concurrency(t *testing.T) {
	var maxConcurrent int64
	var current int64

	tasks := make([]Task[int], 10)
	for i := range tasks {
		tasks[i] = Task[int]{
			Name: fmt.Sprintf("task-%d", i),
			Fn: func(context.Context) (int, error) {
				c := atomic.AddInt64(&current, 1)
				for {
					old := atomic.LoadInt64(&maxConcurrent)
					if c <= old || atomic.CompareAndSwapInt64(&maxConcurrent, old, c) {
						break
					}
				}
				time.Sleep(50 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return i, nil
			},
		}
	}

	results := Run(context.Background(), tasks, 2, nil)

	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.Value, "result %d out of order", i)
	}
	assert.LessOrEqual(t, maxConcurrent, int64(2))
}

func TestRun_DefaultConcurrency(t *testing.T) {
	tasks := []Task[int]{{Name: "test", Fn: ok}}

	// 0 falls back to the default limit
	assert.Len(t, Run(context.Background(), tasks, 0, nil), 1)
}

func TestRun_TimingTracked(t *testing.T) {
	tasks := []Task[int]{
		{Name: "slow", Fn: func(context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return 0, nil
		}},
	}

	results := Run(context.Background(), tasks, 1, nil)
	assert.GreaterOrEqual(t, results[0].Elapsed, 50*time.Millisecond)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	tasks := []Task[int]{
		{Name: "a", Fn: func(context.Context) (int, error) { ran.Add(1); return 0, nil }},
		{Name: "b", Fn: func(context.Context) (int, error) { ran.Add(1); return 0, nil }},
	}

	results := Run(ctx, tasks, 1, nil)
	for _, r := range results {
		assert.False(t, r.OK, r.Name)
		assert.ErrorIs(t, r.Err, context.Canceled, r.Name)
	}
	assert.Zero(t, ran.Load(), "no task should run")
}

func TestRun_Progress(t *testing.T) {
	var buf bytes.Buffer
	tasks := []Task[int]{
		{Name: "full", Fn: ok},
		{Name: "broken", Fn: func(context.Context) (int, error) { return 0, errors.New("boom") }},
	}

	Run(context.Background(), tasks, 1, &buf)

	out := buf.String()
	for _, want := range []string{"full...", "broken...", "(boom)"} {
		assert.Contains(t, out, want)
	}
}
