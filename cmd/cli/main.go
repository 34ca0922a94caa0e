package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"mangatheque/internal/app"
	"mangatheque/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "mangatheque",
	Short: "Track which volumes of your manga series you own",
	Long: `mangatheque manages the local collection directly, using the storage
configured through MANGATHEQUE_* environment variables.

Available commands:
  series  - list, add, show, delete series and refresh their volume count
  volume  - add, toggle and delete volumes of a series
  report  - print the collection report, or a mailto link with --share
  suggest - ask for the official title, author and nationality of a work
  export  - write the collection as JSON or CSV
  import  - replace the collection from a JSON or CSV file
  watch   - print change events from a running api-server`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(seriesCmd, volumeCmd, reportCmd, suggestCmd, exportCmd, importCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp opens the local collection for the duration of one command. Close
// waits for any volume-count sync the command started.
func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := utils.LoadConfig()
		if err != nil {
			return err
		}
		logger, err := utils.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close storage: %w", cerr)
			}
		}()
		return fn(cmd, args, a)
	}
}
