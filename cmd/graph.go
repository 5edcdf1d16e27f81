package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/graph"
	"github.com/msalah0e/tradegraph/internal/ui"
)

// resolveNode maps a node id or a display name onto an id of g. Names are
// matched case-insensitively; an ambiguous name is an error.
func resolveNode(g *graph.Graph, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if _, ok := g.Nodes[arg]; ok {
		return arg, nil
	}

	var hits []string
	for _, n := range g.SortedNodes() {
		if strings.EqualFold(n.Name, arg) {
			hits = append(hits, n.ID)
		}
	}
	if len(hits) == 0 {
		for _, n := range graph.Search(g, arg) {
			hits = append(hits, n.ID)
		}
	}

	switch len(hits) {
	case 0:
		return "", fmt.Errorf("%w: %s", graph.ErrUnknownNode, arg)
	case 1:
		return hits[0], nil
	default:
		if len(hits) > 5 {
			hits = append(hits[:5], "...")
		}
		return "", fmt.Errorf("%q is ambiguous: %s", arg, strings.Join(hits, ", "))
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println(string(data))
}

// topNodes ranks the nodes of g by transactions and keeps at most n.
func topNodes(g *graph.Graph, n int) []*graph.Node {
	nodes := g.SortedNodes()
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Transactions > nodes[j].Transactions })
	return nodes[:min(max(n, 0), len(nodes))]
}

func statsCmd() *cobra.Command {
	var (
		top        int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Node counts, build diagnostics and the busiest entities",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return fmt.Errorf("--top must not be negative, got %d", top)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			e := openExplorer(cmd)
			v := viewOrExit(e)

			nodes := topNodes(v.Graph, top)

			if jsonOutput {
				printJSON(map[string]any{
					"display": e.Display(),
					"build":   e.BuildStats(),
					"full":    e.Full().GetStats(),
					"visible": v.Graph.GetStats(),
					"top":     nodes,
				})
				return
			}

			ui.Banner("stats · " + e.Display().String())
			bs := e.BuildStats()
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Rows read"), bs.Rows)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Rows skipped"), bs.Skipped)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Unparseable value"), bs.Unparseable)
			fmt.Println()

			full, visible := e.Full().GetStats(), v.Graph.GetStats()
			var rows [][]string
			for _, t := range graph.EntityTypes {
				rows = append(rows, []string{ui.Type(t), fmt.Sprintf("%d", full.ByType[t]), fmt.Sprintf("%d", visible.ByType[t])})
			}
			rows = append(rows, []string{"links", fmt.Sprintf("%d", full.Links), fmt.Sprintf("%d", visible.Links)})
			ui.Table([]string{"", "All", "Visible"}, rows)
			fmt.Println()

			fmt.Printf("  Top %d by transactions\n\n", len(nodes))
			rows = rows[:0]
			for _, n := range nodes {
				rows = append(rows, []string{n.Name, ui.Type(n.Type), fmt.Sprintf("%d", n.Transactions), graph.FormatValue(n.Value)})
			}
			ui.Table([]string{"Name", "Type", "Transactions", "Value"}, rows)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "How many nodes to rank")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func showCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               "show <node-id|name>",
		Short:             "Show one entity, its spellings and its links",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			e := openExplorer(cmd)

			id, err := resolveNode(e.Full(), args[0])
			if err != nil {
				fail(err)
			}

			if jsonOutput {
				s, err := e.Summary(id)
				if err != nil {
					fail(err)
				}
				printJSON(s)
				return
			}

			output, err := graph.RenderShow(e.Full(), id, ui.Styler())
			if err != nil {
				fail(err)
			}

			fmt.Println()
			fmt.Print(output)
			fmt.Println()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the selection summary as JSON")
	return cmd
}

func searchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find entities by name or original spelling",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			term := args[0]
			e := openExplorer(cmd)
			e.SetSearch("")
			e.ClearSelection()
			v := viewOrExit(e)

			results := graph.Search(v.Graph, term)

			if jsonOutput {
				printJSON(results)
				return
			}

			if len(results) == 0 {
				fmt.Printf("  No entities found matching %q\n", term)
				return
			}

			ui.Banner("search results")
			var rows [][]string
			for _, n := range results {
				rows = append(rows, []string{n.Name, ui.Type(n.Type), fmt.Sprintf("%d", n.Transactions), graph.FormatValue(n.Value), n.ID})
			}
			ui.Table([]string{"Name", "Type", "Transactions", "Value", "ID"}, rows)
			fmt.Printf("\n  %d results\n", len(results))
			if len(results) == 1 {
				ui.Subtle.Printf("  A unique match becomes the focus: tradegraph --search %q\n", term)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		filterType string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the visible entities",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			var only graph.EntityType
			if filterType != "" {
				t, err := graph.ParseEntityType(filterType)
				if err != nil {
					fail(err)
				}
				only = t
			}

			e := openExplorer(cmd)
			v := viewOrExit(e)

			var nodes []*graph.Node
			for _, n := range v.Graph.SortedNodes() {
				if only != "" && n.Type != only {
					continue
				}
				nodes = append(nodes, n)
			}

			if jsonOutput {
				printJSON(nodes)
				return
			}

			if len(nodes) == 0 {
				fmt.Printf("  No visible nodes of type %q\n", only)
				return
			}

			ui.Banner("entities · " + e.Display().String())
			var rows [][]string
			for _, n := range nodes {
				outgoing, incoming := v.Graph.LinksOf(n.ID)
				rows = append(rows, []string{
					n.ID,
					ui.Type(n.Type),
					fmt.Sprintf("%d", n.Transactions),
					graph.FormatValue(n.Value),
					fmt.Sprintf("%d out / %d in", len(outgoing), len(incoming)),
				})
			}
			ui.Table([]string{"ID", "Type", "Transactions", "Value", "Links"}, rows)
			fmt.Printf("\n  %d entities\n", len(nodes))
		},
	}

	cmd.Flags().StringVar(&filterType, "type", "", "Only country, supplier, product or importer")
	_ = cmd.RegisterFlagCompletionFunc("type", fixedCompletionFunc("country", "supplier", "product", "importer"))
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// render encodes doc in format.
func render(doc *graph.Document, format string) ([]byte, error) {
	switch format {
	case "json":
		return doc.ExportJSON()
	case "yaml", "yml":
		return doc.ExportYAML()
	case "dot":
		return []byte(doc.ExportDOT()), nil
	case "html":
		page, err := doc.ExportHTML()
		return []byte(page), err
	default:
		return nil, fmt.Errorf("unknown format: %s (use json, yaml, dot, or html)", format)
	}
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the visible graph with its layout hints",
		Run: func(cmd *cobra.Command, args []string) {
			e := openExplorer(cmd)
			viewOrExit(e)
			doc, err := e.Document()
			if err != nil {
				fail(err)
			}

			data, err := render(doc, format)
			if err != nil {
				fail(err)
			}

			if output == "" || output == "-" {
				if _, err := os.Stdout.Write(data); err != nil {
					fail(err)
				}
				if len(data) > 0 && data[len(data)-1] != '\n' {
					fmt.Println()
				}
				return
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				fail(err)
			}
			ui.Good.Printf("  %s Wrote %s (%d nodes, %d links)\n", ui.StatusIcon(true), output, doc.Stats.Nodes, doc.Stats.Links)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json, yaml, dot, or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletionFunc("json", "yaml", "dot", "html"))
	return cmd
}

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the interactive graph in a browser",
		Run: func(cmd *cobra.Command, args []string) {
			e := openExplorer(cmd)
			viewOrExit(e)
			doc, err := e.Document()
			if err != nil {
				fail(err)
			}
			page, err := doc.ExportHTML()
			if err != nil {
				fail(err)
			}

			htmlPath := filepath.Join(os.TempDir(), "tradegraph.html")
			if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
				ui.Bad.Printf("  Failed to write HTML: %v\n", err)
				os.Exit(1)
			}

			var openCmd *exec.Cmd
			switch runtime.GOOS {
			case "darwin":
				openCmd = exec.Command("open", htmlPath)
			case "linux":
				openCmd = exec.Command("xdg-open", htmlPath)
			default:
				openCmd = exec.Command("cmd", "/c", "start", htmlPath)
			}

			if err := openCmd.Start(); err != nil {
				fmt.Printf("  HTML written to: %s\n", htmlPath)
				fmt.Println("  Open it in your browser to see the graph")
				return
			}

			ui.Good.Printf("  %s Opened graph (%d nodes, %d links)\n", ui.StatusIcon(true), doc.Stats.Nodes, doc.Stats.Links)
			ui.Subtle.Printf("  %s\n", htmlPath)
		},
	}
}
