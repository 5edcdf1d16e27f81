package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/tradegraph/internal/config"
	"github.com/msalah0e/tradegraph/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Run: func(cmd *cobra.Command, args []string) {
				ui.Subtle.Printf("# %s\n", config.Path())
				if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
					fail(err)
				}
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the default configuration if none exists",
			Run: func(cmd *cobra.Command, args []string) {
				created, err := config.EnsureExists()
				if err != nil {
					fail(err)
				}
				if !created {
					fmt.Printf("  %s already exists\n", config.Path())
					return
				}
				ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), config.Path())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(config.Path())
			},
		},
	)

	return cmd
}
