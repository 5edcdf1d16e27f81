package ingest

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/msalah0e/tradegraph/internal/graph"
)

// Loader caches parsed sources by path. Concurrent loads of the same path
// share one read. The returned rows are shared and must not be modified.
type Loader struct {
	open func(ctx context.Context, path string) ([]graph.Row, error)

	cache   map[string][]graph.Row
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewLoader returns a Loader that reads through Open.
func NewLoader() *Loader {
	return &Loader{
		open:  Open,
		cache: make(map[string][]graph.Row),
	}
}

// Load returns the rows of path, reading it at most once.
func (l *Loader) Load(ctx context.Context, path string) ([]graph.Row, error) {
	key := cacheKey(path)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		rows, err := l.open(ctx, path)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = rows
		l.cacheMu.Unlock()

		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]graph.Row), nil
}

func cacheKey(path string) string {
	if path == Stdin {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
