package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mangatheque/internal/app"
	"mangatheque/internal/transfer"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the collection as JSON or CSV",
	Args:  cobra.NoArgs,
	RunE:  withApp(runExport),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the whole collection with the series in a JSON or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runImport),
}

var (
	exportFormat string
	exportOut    string
	importYes    bool
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", transfer.FormatJSON, "json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output path, - for stdout")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "do not ask for confirmation")
}

func runExport(cmd *cobra.Command, _ []string, a *app.App) error {
	list := a.Store.List()
	if exportOut == "-" {
		return transfer.Write(cmd.OutOrStdout(), exportFormat, list)
	}
	if err := transfer.WriteFile(exportOut, exportFormat, list); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✅ exported %d series to %s\n", len(list), exportOut)
	return nil
}

func runImport(cmd *cobra.Command, args []string, a *app.App) error {
	list, err := transfer.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	if !importYes {
		prompt := fmt.Sprintf("Remplacer les %d séries actuelles par les %d du fichier ?", len(a.Store.List()), len(list))
		if !stdinConfirmer(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(prompt) {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}
	if err := a.Store.Replace(cmd.Context(), list); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ imported %d series from %s\n", len(list), args[0])
	return nil
}

