package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/explorer"
	"github.com/msalah0e/tradegraph/internal/server"
	"github.com/msalah0e/tradegraph/internal/ui"
)

// serverOptions carries the explorer's display and filter, including a
// resolved --focus and --search, over as request defaults.
func serverOptions(e *explorer.Explorer) server.Options {
	return server.Options{
		Display:    e.Display(),
		Filter:     e.Filter(),
		Layout:     cfg.GraphLayout(),
		Vocabulary: &cfg.Vocabulary,
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over HTTP",
		Long: `Serve the loaded trade data over HTTP. Every request may pick its own
display configuration and filter; full graphs are built once per configuration.

  GET /                 interactive page
  GET /api/graph        visible graph, layout hints and selection
                        ?mode=&product=&hs_level=&threshold=&search=&focus=
  GET /api/nodes/:id    selection summary of one node`,
		Run: func(cmd *cobra.Command, args []string) {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			e := openExplorer(cmd)
			opts := serverOptions(e)
			srv := server.New(e.Rows(), opts)

			ui.Banner("serve")
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-8s", "Data"), cfg.Data.Path)
			fmt.Printf("  %s  %d rows\n", ui.Brand.Sprintf("%-8s", "Rows"), len(e.Rows()))
			if opts.Filter.Focus != "" {
				fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-8s", "Focus"), opts.Filter.Focus)
			}
			if opts.Filter.Search != "" {
				fmt.Printf("  %s  %q\n", ui.Brand.Sprintf("%-8s", "Search"), opts.Filter.Search)
			}
			fmt.Printf("  %s  http://%s/\n", ui.Brand.Sprintf("%-8s", "Listen"), addr)
			fmt.Println()
			ui.Subtle.Println("  Ctrl-C to stop")

			if err := srv.Start(cmd.Context(), addr); err != nil {
				fail(err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
