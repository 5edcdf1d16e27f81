// Package ingest turns a CSV trade export into graph rows.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/msalah0e/tradegraph/internal/graph"
)

// ErrSourceUnavailable wraps every failure to open, read or parse the source.
var ErrSourceUnavailable = errors.New("trade data source unavailable")

// Stdin is the path that selects standard input.
const Stdin = "-"

const bom = "\uFEFF"

// ctxCheckEvery bounds how many records are read between context checks.
const ctxCheckEvery = 1024

// ReadCSV parses r as a header-first CSV file. Header cells are used
// verbatim as row keys (apart from a leading byte order mark), so a column
// such as "HS Code " keeps its trailing space. Blank records are dropped and
// records with a bad quote are skipped.
func ReadCSV(ctx context.Context, r io.Reader) ([]graph.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrSourceUnavailable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	header = append([]string(nil), header...)

	var rows []graph.Row
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		if blank(record) {
			continue
		}

		row := make(graph.Row, len(header))
		for i, field := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = field
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Open reads path, or standard input when path is "-".
func Open(ctx context.Context, path string) ([]graph.Row, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no data file configured", ErrSourceUnavailable)
	}
	if path == Stdin {
		return ReadCSV(ctx, os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	rows, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
