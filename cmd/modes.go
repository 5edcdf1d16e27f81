package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/parallel"
	"github.com/msalah0e/tradegraph/internal/ui"
)

type modeSummary struct {
	Display graph.DisplayConfig `json:"display"`
	Full    graph.Stats         `json:"full"`
	Visible graph.Stats         `json:"visible"`
}

func modesCmd() *cobra.Command {
	var (
		concurrency int
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Build every display mode and compare the graphs",
		Run: func(cmd *cobra.Command, args []string) {
			rows, err := loader.Load(cmd.Context(), cfg.Data.Path)
			if err != nil {
				fail(err)
			}
			norm := graph.NewNormalizer(cfg.Vocabulary)
			base := cfg.GraphDisplay()
			filter := graph.FilterState{MinTransactions: cfg.Filter.MinTransactions, Search: flagSearch}

			var tasks []parallel.Task[modeSummary]
			for _, mode := range graph.DisplayModes {
				display := base
				display.Mode = mode
				tasks = append(tasks, parallel.Task[modeSummary]{
					Name: string(mode),
					Fn: func(ctx context.Context) (modeSummary, error) {
						full, _ := graph.Build(rows, display, norm)
						if err := ctx.Err(); err != nil {
							return modeSummary{}, err
						}
						v := graph.Visible(full, filter)
						return modeSummary{Display: display, Full: full.GetStats(), Visible: v.Graph.GetStats()}, nil
					},
				})
			}

			var progress io.Writer
			if !jsonOutput {
				ui.Banner("display modes")
				progress = os.Stdout
			}
			results := parallel.Run(cmd.Context(), tasks, concurrency, progress)

			if jsonOutput {
				var out []modeSummary
				for _, r := range results {
					if r.OK {
						out = append(out, r.Value)
					}
				}
				printJSON(out)
				return
			}

			fmt.Println()
			var table [][]string
			for _, r := range results {
				if !r.OK {
					table = append(table, []string{r.Name, "-", "-", "-", "-"})
					continue
				}
				s := r.Value
				table = append(table, []string{
					r.Name,
					fmt.Sprintf("%d", s.Full.Nodes),
					fmt.Sprintf("%d", s.Full.Links),
					fmt.Sprintf("%d", s.Visible.Nodes),
					fmt.Sprintf("%d", s.Visible.Links),
				})
			}
			ui.Table([]string{"Mode", "Nodes", "Links", "Visible nodes", "Visible links"}, table)
			fmt.Println()
			ui.Subtle.Printf("  threshold %d, %s\n", filter.MinTransactions, base.Product)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 3, "Modes built at once")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
