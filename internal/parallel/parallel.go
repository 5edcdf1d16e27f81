package parallel

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/tradegraph/internal/ui"
)

// Result holds the outcome of a parallel task.
type Result[T any] struct {
	Name    string
	OK      bool
	Err     error
	Value   T
	Elapsed time.Duration
}

// Task is a function that runs in parallel.
type Task[T any] struct {
	Name string
	Fn   func(ctx context.Context) (T, error)
}

// Run executes tasks in parallel with the given concurrency limit and
// returns results in the order tasks were submitted. A failing task does not
// stop the others. Progress lines go to progress when it is non-nil. Tasks
// not yet started when ctx is done fail with ctx.Err().
func Run[T any](ctx context.Context, tasks []Task[T], concurrency int, progress io.Writer) []Result[T] {
	if concurrency < 1 {
		concurrency = 4
	}

	results := make([]Result[T], len(tasks))
	var mu sync.Mutex
	report := func(format string, args ...any) {
		if progress == nil {
			return
		}
		mu.Lock()
		fmt.Fprintf(progress, format, args...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result[T]{Name: task.Name, Err: err}
				return nil
			}
			start := time.Now()
			report("  %s %s...\n", ui.Subtle.Sprint("⟳"), task.Name)

			value, err := task.Fn(gctx)
			elapsed := time.Since(start)

			if err != nil {
				results[i] = Result[T]{Name: task.Name, Err: err, Value: value, Elapsed: elapsed}
				report("  %s %s %s\n", ui.StatusIcon(false), task.Name, ui.Bad.Sprintf("(%v)", err))
			} else {
				results[i] = Result[T]{Name: task.Name, OK: true, Value: value, Elapsed: elapsed}
				report("  %s %s %s\n", ui.StatusIcon(true), task.Name, ui.Subtle.Sprintf("%.1fs", elapsed.Seconds()))
			}

			return nil // never fail the group, collect results instead
		})
	}

	_ = g.Wait()
	return results
}
