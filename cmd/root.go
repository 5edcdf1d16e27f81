package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/config"
	"github.com/msalah0e/tradegraph/internal/explorer"
	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/ingest"
	"github.com/msalah0e/tradegraph/internal/logger"
	"github.com/msalah0e/tradegraph/internal/ui"
)

var version = "0.3.0"

var (
	cfg    *config.Config
	loader = ingest.NewLoader()
)

// Persistent flags override the config file per invocation.
var (
	flagData      string
	flagMode      string
	flagProduct   string
	flagHSLevel   string
	flagThreshold int
	flagSearch    string
	flagFocus     string
)

var rootCmd = &cobra.Command{
	Use:   "tradegraph",
	Short: "tradegraph — explore trade relationships as a graph",
	Long: ui.Brand.Sprint(ui.Globe+" tradegraph") + " — turn trade export records into a supplier network\n" +
		ui.Subtle.Sprint("Deduplicate companies, aggregate shipments, filter and focus the resulting graph"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		if err := logger.Init(logger.Options{Level: c.Log.Level, Debug: c.Log.Debug}); err != nil {
			return err
		}
		cfg = c
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		e := openExplorer(cmd)
		overview(e)
	},
}

func init() {
	rootCmd.SetVersionTemplate("tradegraph {{ .Version }}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagData, "data", "d", "", "Trade CSV file, or - for stdin")
	pf.StringVar(&flagMode, "mode", "", "Display mode (see `tradegraph modes`)")
	pf.StringVar(&flagProduct, "product", "", "Product identity: hsCode or productName")
	pf.StringVar(&flagHSLevel, "hs-level", "", "HS code granularity: category, subcategory or exact")
	pf.IntVarP(&flagThreshold, "threshold", "t", 0, "Minimum transactions per link")
	pf.StringVarP(&flagSearch, "search", "s", "", "Free-text search over names and original spellings")
	pf.StringVarP(&flagFocus, "focus", "f", "", "Focus a node id or name and show its direct network")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", modeCompletionFunc)
	_ = rootCmd.RegisterFlagCompletionFunc("product", fixedCompletionFunc("hsCode", "productName"))
	_ = rootCmd.RegisterFlagCompletionFunc("hs-level", fixedCompletionFunc("category", "subcategory", "exact"))
	_ = rootCmd.RegisterFlagCompletionFunc("focus", nodeCompletionFunc)

	rootCmd.AddCommand(
		statsCmd(),
		showCmd(),
		searchCmd(),
		listCmd(),
		exportCmd(),
		viewCmd(),
		modesCmd(),
		serveCmd(),
		configCmd(),
		completionCmd(),
	)
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Bad.Fprintf(os.Stderr, "  tradegraph: %v\n", err)
		return err
	}
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.Data.Path = flagData
	}
	if flags.Changed("mode") {
		c.Display.Mode = flagMode
	}
	if flags.Changed("product") {
		c.Display.Product = flagProduct
	}
	if flags.Changed("hs-level") {
		c.Display.HSLevel = flagHSLevel
	}
	if flags.Changed("threshold") {
		// below 1 means "show everything"
		c.Filter.MinTransactions = max(flagThreshold, 1)
	}
}

// fail prints err the way every command reports errors and exits 1.
func fail(err error) {
	ui.Bad.Printf("  %v\n", err)
	os.Exit(1)
}

// openExplorer loads the configured source and applies the search and
// focus flags.
func openExplorer(cmd *cobra.Command) *explorer.Explorer {
	rows, err := loader.Load(cmd.Context(), cfg.Data.Path)
	if err != nil {
		if errors.Is(err, ingest.ErrSourceUnavailable) && cfg.Data.Path == "" {
			fmt.Println("  No data file. Point tradegraph at a trade export:")
			fmt.Println()
			ui.Info.Println("  tradegraph --data shipments.csv")
			ui.Info.Printf("  export %s=shipments.csv\n", config.EnvData)
			ui.Subtle.Printf("  or set [data] path in %s\n", config.Path())
			os.Exit(1)
		}
		fail(err)
	}

	e, err := explorer.New(rows, explorer.Options{
		Display:    cfg.GraphDisplay(),
		Filter:     graph.FilterState{MinTransactions: cfg.Filter.MinTransactions},
		Vocabulary: &cfg.Vocabulary,
		Layout:     cfg.GraphLayout(),
	})
	if err != nil {
		fail(err)
	}
	stats := e.BuildStats()
	logger.Debug("rows loaded", "path", cfg.Data.Path, "rows", stats.Rows, "skipped", stats.Skipped, "unparseable", stats.Unparseable)

	e.SetSearch(flagSearch)
	if flagFocus != "" {
		id, err := resolveNode(e.Full(), flagFocus)
		if err != nil {
			fail(err)
		}
		if err := e.Focus(id); err != nil {
			fail(err)
		}
	}
	return e
}

// viewOrExit computes the visible graph, telling an empty filter result
// apart from missing data.
func viewOrExit(e *explorer.Explorer) *graph.View {
	v, err := e.View()
	switch {
	case errors.Is(err, graph.ErrNoData):
		stats := e.BuildStats()
		ui.Warn.Printf("  %s No usable rows: %d read, %d skipped for missing fields\n", ui.WarnIcon(), stats.Rows, stats.Skipped)
		ui.Subtle.Printf("  Expected columns: %q, %q, %q, %q or %q, %q\n",
			graph.CountryColumn, graph.SupplierColumn, graph.ImporterColumn,
			graph.HSCodeColumn, graph.ProductColumn, graph.ValueColumn)
		os.Exit(1)
	case errors.Is(err, graph.ErrEmptyView):
		f := e.Filter()
		ui.Warn.Printf("  %s Nothing matches the current filter (threshold %d", ui.WarnIcon(), f.MinTransactions)
		if f.Search != "" {
			ui.Warn.Printf(", search %q", f.Search)
		}
		ui.Warn.Println(")")
		fmt.Println("  Lower --threshold or change --search")
		os.Exit(1)
	case err != nil:
		fail(err)
	}
	return v
}

func overview(e *explorer.Explorer) {
	v := viewOrExit(e)
	full := e.Full().GetStats()
	visible := v.Graph.GetStats()
	bs := e.BuildStats()

	ui.Banner(e.Display().String())

	fmt.Printf("  %s  %d used / %d read", ui.Brand.Sprintf("%-14s", "Rows"), bs.Used(), bs.Rows)
	if bs.Skipped > 0 {
		fmt.Printf("  %s", ui.Subtle.Sprintf("(%d skipped)", bs.Skipped))
	}
	fmt.Println()
	if bs.Unparseable > 0 {
		fmt.Printf("  %s  %d counted as $0\n", ui.Brand.Sprintf("%-14s", "Bad values"), bs.Unparseable)
	}
	fmt.Printf("  %s  %d nodes, %d links\n", ui.Brand.Sprintf("%-14s", "Full graph"), full.Nodes, full.Links)
	fmt.Printf("  %s  %d nodes, %d links\n", ui.Brand.Sprintf("%-14s", "Visible"), visible.Nodes, visible.Links)
	fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-14s", "Trade value"), graph.FormatValue(full.TotalValue))
	fmt.Println()

	var rows [][]string
	for _, t := range graph.EntityTypes {
		rows = append(rows, []string{ui.Type(t), fmt.Sprintf("%d", full.ByType[t]), fmt.Sprintf("%d", visible.ByType[t])})
	}
	ui.Table([]string{"Type", "All", "Visible"}, rows)

	if v.Focus != "" {
		fmt.Println()
		if n, ok := v.Graph.Nodes[v.Focus]; ok {
			fmt.Printf("  Focus: %s %s\n", ui.Brand.Sprint(n.Name), ui.Subtle.Sprintf("(%s)", n.ID))
		} else {
			ui.Subtle.Printf("  Focus %s is below the threshold\n", v.Focus)
		}
	}
	fmt.Println()
	ui.Subtle.Printf("  Threshold %d. Try `tradegraph stats`, `tradegraph view` or `tradegraph serve`\n", e.Filter().MinTransactions)
}
