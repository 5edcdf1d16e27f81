// Package explorer holds the interactive state of one trade graph session:
// the loaded rows, the display configuration, the filter state and the
// full graph built from them.
package explorer

import (
	"fmt"

	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/logger"
)

// Options seeds a new Explorer.
type Options struct {
	Display graph.DisplayConfig
	Filter  graph.FilterState
	// Vocabulary defaults to graph.DefaultVocabulary when nil.
	Vocabulary *graph.Vocabulary
	Layout     graph.LayoutOptions
}

// Explorer recomputes the full graph on display changes and the visible
// view on filter changes. It is not safe for concurrent use.
type Explorer struct {
	rows    []graph.Row
	display graph.DisplayConfig
	filter  graph.FilterState
	norm    *graph.Normalizer
	layout  graph.LayoutOptions

	full  *graph.Graph
	stats graph.BuildStats
}

// New validates the display configuration and builds the full graph.
func New(rows []graph.Row, opts Options) (*Explorer, error) {
	if err := opts.Display.Validate(); err != nil {
		return nil, err
	}
	vocab := graph.DefaultVocabulary()
	if opts.Vocabulary != nil {
		vocab = *opts.Vocabulary
	}
	e := &Explorer{
		rows:    rows,
		display: opts.Display,
		filter:  opts.Filter,
		norm:    graph.NewNormalizer(vocab),
		layout:  opts.Layout,
	}
	e.rebuild()
	return e, nil
}

func (e *Explorer) rebuild() {
	e.full, e.stats = graph.Build(e.rows, e.display, e.norm)
	logger.Debug("graph built",
		"display", e.display.String(),
		"rows", e.stats.Rows,
		"skipped", e.stats.Skipped,
		"unparseable", e.stats.Unparseable,
		"nodes", len(e.full.Nodes),
		"links", len(e.full.Links),
	)
	if e.stats.Skipped > 0 || e.stats.Unparseable > 0 {
		logger.Warn("incomplete rows",
			"skipped", e.stats.Skipped,
			"unparseable", e.stats.Unparseable,
			"of", e.stats.Rows,
		)
	}
}

// SetDisplay switches the display configuration and rebuilds. The focus is
// cleared since node ids depend on the configuration; search and threshold
// are kept.
func (e *Explorer) SetDisplay(cfg graph.DisplayConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg == e.display {
		return nil
	}
	e.display = cfg
	e.filter.Focus = ""
	e.rebuild()
	return nil
}

// SetThreshold sets the minimum link transaction count. Values below 1 are
// stored as 1.
func (e *Explorer) SetThreshold(n int) {
	e.filter.MinTransactions = max(n, 1)
}

// SetSearch sets the free-text search term.
func (e *Explorer) SetSearch(term string) {
	e.filter.Search = term
}

// Focus selects id. The id must exist in the full graph.
func (e *Explorer) Focus(id string) error {
	if _, err := e.full.Node(id); err != nil {
		return err
	}
	e.filter.Focus = id
	return nil
}

// ClearSelection drops the focus.
func (e *Explorer) ClearSelection() {
	e.filter.Focus = ""
}

func (e *Explorer) Rows() []graph.Row            { return e.rows }
func (e *Explorer) Display() graph.DisplayConfig { return e.display }
func (e *Explorer) Filter() graph.FilterState    { return e.filter }
func (e *Explorer) Full() *graph.Graph           { return e.full }
func (e *Explorer) BuildStats() graph.BuildStats { return e.stats }

// View computes the visible subgraph. A unique search match with no focus
// set becomes the focus and stays selected. ErrNoData is returned when the
// full graph is empty and ErrEmptyView, together with the empty view, when
// the filter leaves nothing visible.
func (e *Explorer) View() (*graph.View, error) {
	if len(e.full.Nodes) == 0 {
		return nil, graph.ErrNoData
	}
	v := graph.Visible(e.full, e.filter)
	if v.AutoFocused {
		e.filter.Focus = v.Focus
	}
	if v.Empty() {
		return v, graph.ErrEmptyView
	}
	return v, nil
}

// Layout computes the layout hints for v.
func (e *Explorer) Layout(v *graph.View) *graph.Layout {
	return graph.LayoutHints(v.Graph, e.display.Mode, v.Focus, e.layout)
}

// Document assembles the visible graph, its layout and the selection.
func (e *Explorer) Document() (*graph.Document, error) {
	v, err := e.View()
	if err != nil {
		return nil, err
	}
	return graph.NewDocument(v, e.display, e.filter, e.Layout(v)), nil
}

// Summary returns the selection summary of id from the full graph.
func (e *Explorer) Summary(id string) (graph.Summary, error) {
	n, err := e.full.Node(id)
	if err != nil {
		return graph.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return graph.Summarize(n), nil
}
