package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mangatheque/internal/app"
	"mangatheque/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print owned and missing volumes for every series",
	Args:  cobra.NoArgs,
	RunE:  withApp(runReport),
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Look up the official title, author and nationality of a work",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runSuggest),
}

var reportShare bool

func init() {
	reportCmd.Flags().BoolVar(&reportShare, "share", false, "print a mailto: link instead of the text")
}

func runReport(cmd *cobra.Command, _ []string, a *app.App) error {
	text := report.Build(a.Store.List()).Text()
	if reportShare {
		fmt.Fprintln(cmd.OutOrStdout(), report.MailtoLink(text))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runSuggest(cmd *cobra.Command, args []string, a *app.App) error {
	sg := a.Suggester.Suggest(cmd.Context(), strings.Join(args, " "))
	if sg == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no suggestion available")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "title:       %s\nauthor:      %s\nnationality: %s\n", sg.Title, sg.Author, sg.Nationality)
	return nil
}
