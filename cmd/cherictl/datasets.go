package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/dataset"
	"github.com/JonMunkholm/cheri-cve/internal/report"
)

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the dataset catalog with row and column counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := dataset.NewLoader()
			t := report.Table{
				Title:  "Datasets",
				Header: []string{"Dataset", "Choice", "Kind", "Rows", "Columns", "Status"},
			}
			for i, info := range a.catalog.All() {
				row := []string{info.Label, strconv.Itoa(i + 1), info.Kind.String(), "-", "-", "ok"}
				ds, err := loader.Load(cmd.Context(), info)
				if err != nil {
					row[5] = core.DescribeCode(err) + " " + info.Path
				} else {
					row[3] = strconv.Itoa(ds.Len())
					row[4] = strconv.Itoa(len(ds.Columns()))
				}
				t.Rows = append(t.Rows, row)
			}
			return report.RenderText(cmd.OutOrStdout(), t)
		},
	}
}
