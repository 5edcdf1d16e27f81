package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/config"
	"github.com/msalah0e/tradegraph/internal/graph"
)

// completionCmd generates shell completion scripts.
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(tradegraph completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(tradegraph completion zsh)"

  # Fish
  tradegraph completion fish | source

  # PowerShell
  tradegraph completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				_ = rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				_ = rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				_ = rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				_ = rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}

	return cmd
}

// nodeCompletionFunc completes node ids of the configured data file. It
// loads the config itself since completion skips the pre-run hooks.
func nodeCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c := cfg
	if c == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		applyFlags(cmd, loaded)
		c = loaded
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := loader.Load(ctx, c.Data.Path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	g, _ := graph.Build(rows, c.GraphDisplay(), graph.NewNormalizer(c.Vocabulary))
	return nodeCompletions(g), cobra.ShellCompDirectiveNoFileComp
}

func nodeCompletions(g *graph.Graph) []string {
	var completions []string
	for _, n := range g.SortedNodes() {
		completions = append(completions, n.ID+"\t"+n.Name+" ("+string(n.Type)+")")
	}
	return completions
}

func modeCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, m := range graph.DisplayModes {
		var desc string
		for i, e := range m.Edges() {
			if i > 0 {
				desc += ", "
			}
			desc += string(e[0]) + "→" + string(e[1])
		}
		completions = append(completions, string(m)+"\t"+desc)
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func fixedCompletionFunc(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
