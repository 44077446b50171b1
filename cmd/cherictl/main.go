// Command cherictl filters the CHERI CVE datasets interactively and generates
// the cross-tabulation report tables from scripted filter runs.
//
//	cherictl filter                     interactive filter session on stdin/stdout
//	cherictl report [--table t] [--direct]
//	cherictl datasets                   list the dataset catalog
//
// Configuration is read from the environment (and a .env file if present);
// see internal/config. Logs go to stderr so stdout carries only session and
// report text.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cheri-cve/internal/config"
	"github.com/JonMunkholm/cheri-cve/internal/core"
	"github.com/JonMunkholm/cheri-cve/internal/core/datasets"
	"github.com/JonMunkholm/cheri-cve/internal/logging"
)

// app is the state shared by every subcommand, built once before any runs.
type app struct {
	cfg     *config.Config
	catalog *core.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cherictl",
		Short:         "Filter CHERI CVE datasets and build mitigation report tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.AddCommand(newFilterCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newDatasetsCmd(a))
	return root
}

func (a *app) setup() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	a.cfg = cfg
	a.catalog = datasets.Catalog(cfg.Data)

	slog.Debug("configuration loaded", "config", cfg.String(), "datasets", a.catalog.Len())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg := core.Describe(err)
		slog.Error(msg.Message,
			"code", msg.Code,
			"action", msg.Action,
			"error", err,
		)
		stop()
		os.Exit(1)
	}
}
