package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/tradegraph/internal/graph"
)

const sample = "\uFEFFForeign Country,Supplier Name,Importer Name,HS Code ,Product Name,CIF Value (USD)\n" +
	"China,SUZLON LTD,ACME INC,850212,\"Wind turbine, generator set\",1000\n" +
	"\n" +
	",,,,,\n" +
	"China,Suzlon,ACME,850230,Wind turbine blade,500\n" +
	"India,Inox Wind\n"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trade.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "China", rows[0][graph.CountryColumn], "byte order mark stripped from the first header")
	assert.Equal(t, "850212", rows[0][graph.HSCodeColumn], "trailing space in header kept")
	assert.Equal(t, "Wind turbine, generator set", rows[0][graph.ProductColumn])
	assert.Equal(t, "500", rows[1][graph.ValueColumn])

	short := rows[2]
	assert.Equal(t, "Inox Wind", short[graph.SupplierColumn])
	_, ok := short[graph.ImporterColumn]
	assert.False(t, ok)
}

func TestReadCSVFeedsBuilder(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)

	g, stats := graph.Build(rows, graph.DefaultDisplay(), nil)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, g.Nodes, 4)
	assert.Contains(t, g.Nodes, "supplier-SUZLON")
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ReadCSV(context.Background(), strings.NewReader("Foreign Country,Supplier Name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, strings.NewReader(sample))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	rows, err := Open(context.Background(), writeFile(t, sample))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = Open(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoaderCaches(t *testing.T) {
	path := writeFile(t, sample)
	l := NewLoader()

	first, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, first, 3)

	require.NoError(t, os.WriteFile(path, []byte("Foreign Country\nChina\n"), 0o644))

	cached, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	fresh, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestLoaderSharesConcurrentReads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLoader()
	l.open = func(ctx context.Context, path string) ([]graph.Row, error) {
		calls.Add(1)
		<-release
		return []graph.Row{{graph.CountryColumn: "China"}}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := l.Load(context.Background(), "trade.csv")
			assert.NoError(t, err)
			assert.Len(t, rows, 1)
		}()
	}
	close(release)
	wg.Wait()

	// late arrivals hit the cache
	_, err := l.Load(context.Background(), "trade.csv")
	require.NoError(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestLoaderDoesNotCacheErrors(t *testing.T) {
	fail := true
	l := NewLoader()
	l.open = func(ctx context.Context, path string) ([]graph.Row, error) {
		if fail {
			return nil, ErrSourceUnavailable
		}
		return []graph.Row{{}}, nil
	}

	_, err := l.Load(context.Background(), "x.csv")
	assert.True(t, errors.Is(err, ErrSourceUnavailable))

	fail = false
	rows, err := l.Load(context.Background(), "x.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
