package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/tradegraph/internal/config"
	"github.com/msalah0e/tradegraph/internal/explorer"
	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/server"
)

func testRows() []graph.Row {
	r := func(country, supplier, importer, hs string) graph.Row {
		return graph.Row{
			graph.CountryColumn:  country,
			graph.SupplierColumn: supplier,
			graph.ImporterColumn: importer,
			graph.HSCodeColumn:   hs,
			graph.ValueColumn:    "10",
		}
	}
	return []graph.Row{
		r("China", "Suzlon Energy Ltd.", "Acme Inc", "850212"),
		r("India", "Inox Wind", "Acme Industries", "850230"),
	}
}

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, _ := graph.Build(testRows(), graph.DefaultDisplay(), nil)
	return g
}

func TestResolveNode(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		arg  string
		want string
	}{
		{"supplier-SUZLON", "supplier-SUZLON"},
		{"suzlon", "supplier-SUZLON"},
		{"  India ", "country-India"},
		{"acme industries", "importer-ACME INDUSTRIES"},
		{"Inox", "supplier-INOX WIND"},
	}
	for _, tt := range tests {
		got, err := resolveNode(g, tt.arg)
		if assert.NoError(t, err, tt.arg) {
			assert.Equal(t, tt.want, got, tt.arg)
		}
	}
}

func TestResolveNodeUnknown(t *testing.T) {
	_, err := resolveNode(testGraph(t), "atlantis")
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestResolveNodeAmbiguous(t *testing.T) {
	_, err := resolveNode(testGraph(t), "acm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
	assert.Contains(t, err.Error(), "importer-ACME")
}

func TestTopNodes(t *testing.T) {
	g := testGraph(t)

	assert.Len(t, topNodes(g, 3), 3)
	assert.Len(t, topNodes(g, 100), len(g.Nodes))
	assert.Empty(t, topNodes(g, 0))
	assert.Empty(t, topNodes(g, -1))

	ranked := topNodes(g, len(g.Nodes))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Transactions, ranked[i].Transactions)
	}
}

func TestRender(t *testing.T) {
	g := testGraph(t)
	v := graph.Visible(g, graph.FilterState{MinTransactions: 1})
	doc := graph.NewDocument(v, graph.DefaultDisplay(), graph.FilterState{MinTransactions: 1}, nil)

	for _, format := range []string{"json", "yaml", "yml", "dot", "html"} {
		data, err := render(doc, format)
		if assert.NoError(t, err, format) {
			assert.NotEmpty(t, data, format)
		}
	}

	_, err := render(doc, "xml")
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&flagMode, "mode", "", "")
	cmd.Flags().StringVar(&flagData, "data", "", "")
	cmd.Flags().IntVar(&flagThreshold, "threshold", 0, "")
	cmd.Flags().StringVar(&flagProduct, "product", "", "")
	cmd.Flags().StringVar(&flagHSLevel, "hs-level", "", "")
	t.Cleanup(func() { flagMode, flagData, flagThreshold = "", "", 0 })

	require.NoError(t, cmd.ParseFlags([]string{"--mode", "country-product", "--threshold", "-4"}))

	c := config.Default()
	c.Data.Path = "from-config.csv"
	applyFlags(cmd, c)

	assert.Equal(t, "country-product", c.Display.Mode)
	assert.Equal(t, 1, c.Filter.MinTransactions, "threshold clamped to 1")
	assert.Equal(t, "from-config.csv", c.Data.Path, "unchanged flag keeps config value")
	assert.Equal(t, "hsCode", c.Display.Product)
}

func TestServerOptionsCarryFocusAndSearch(t *testing.T) {
	saved := cfg
	cfg = config.Default()
	t.Cleanup(func() { cfg = saved })

	e, err := explorer.New(testRows(), explorer.Options{
		Display: graph.DefaultDisplay(),
		Filter:  graph.FilterState{MinTransactions: 1},
	})
	require.NoError(t, err)
	e.SetSearch("inox")
	id, err := resolveNode(e.Full(), "suzlon")
	require.NoError(t, err)
	require.NoError(t, e.Focus(id))

	opts := serverOptions(e)
	assert.Equal(t, "supplier-SUZLON", opts.Filter.Focus)
	assert.Equal(t, "inox", opts.Filter.Search)

	rec := httptest.NewRecorder()
	server.New(e.Rows(), opts).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graph", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Focus string       `json:"focus"`
		Nodes []graph.Node `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "supplier-SUZLON", body.Focus)
	ids := make([]string, 0, len(body.Nodes))
	for _, n := range body.Nodes {
		ids = append(ids, n.ID)
	}
	// SUZLON's network plus the "inox" match
	assert.ElementsMatch(t, []string{"country-China", "supplier-SUZLON", "product-HS 85xx", "supplier-INOX WIND"}, ids)
}

func TestNodeCompletions(t *testing.T) {
	completions := nodeCompletions(testGraph(t))
	require.Len(t, completions, 7)
	assert.Equal(t, "country-China\tChina (country)", completions[0])
}

func TestModeCompletion(t *testing.T) {
	completions, _ := modeCompletionFunc(nil, nil, "")
	require.Len(t, completions, len(graph.DisplayModes))
	assert.Equal(t, "full\tcountry→supplier, supplier→product, product→importer", completions[0])
}
