package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cheri-cve/internal/config"
	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/dataset"
	"github.com/JonMunkholm/cheri-cve/internal/driver"
	"github.com/JonMunkholm/cheri-cve/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		table  string
		direct bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the cross-tabulation tables",
		Long: `Runs the fixed matrix of scripted filter sessions and prints:

  Tables 1 and 2  outcome counts per category and operating system
  Table 4         cause vs manifestation row counts (CSV)
  Tables 3 and 5  outcome counts per category and mitigation technology

Sessions run in-process by default; REPORT_TRANSPORT=exec runs each one as a
child "cherictl filter" process instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.driver(direct)
			if err != nil {
				return err
			}
			m, err := report.LoadMatrix(a.cfg.Report.MatrixFile)
			if err != nil {
				return err
			}

			agg := report.New(d, a.catalog, m,
				report.WithParallelism(a.cfg.Report.Parallelism),
				report.WithDirect(direct),
				report.WithNormalizer(m.Normalizer()),
			)
			blocks, err := agg.Generate(cmd.Context(), table)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), blocks)
		},
	}

	cmd.Flags().StringVar(&table, "table", report.WorkflowAll,
		"tables to generate: "+strings.Join(report.Workflows, ", "))
	cmd.Flags().BoolVar(&direct, "direct", false,
		"aggregate structured session results instead of parsing session text")
	return cmd
}

func (a *app) driver(direct bool) (driver.Driver, error) {
	rc := a.cfg.Report
	opts := []driver.Option{
		driver.WithTimeout(rc.RunTimeout),
		driver.WithWrapWidth(a.cfg.Console.WrapWidth),
	}

	switch strings.ToLower(rc.Transport) {
	case config.TransportExec:
		if direct {
			return nil, core.Errorf(core.KindInputValidation, "report options",
				"--direct needs REPORT_TRANSPORT=%s", config.TransportInProcess)
		}
		path := rc.ExecPath
		if path == "" {
			self, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("locate cherictl executable: %w", err)
			}
			path = self
		}
		return driver.NewExec(path, a.catalog.QuitChoice(), opts...), nil
	default:
		return driver.NewInProcess(a.catalog, dataset.NewLoader(), opts...), nil
	}
}
