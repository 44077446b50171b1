package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cheri-cve/internal/console"
	"github.com/JonMunkholm/cheri-cve/internal/dataset"
)

func newFilterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Run the interactive filter session",
		Long: `Prompts for a dataset, a column and a value, then prints the matching
row count grouped by Symptoms and Causes with the outcome counts of each group.
Answers are read one per line from stdin; the last menu entry quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.Run(cmd.Context(), a.catalog, dataset.NewLoader(),
				cmd.InOrStdin(), cmd.OutOrStdout(),
				console.WithWrapWidth(a.cfg.Console.WrapWidth),
			)
		},
	}
}
