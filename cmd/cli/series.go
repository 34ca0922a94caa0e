package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mangatheque/internal/app"
	"mangatheque/internal/imagedata"
	"mangatheque/internal/library"
	"mangatheque/pkg/models"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage series",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series with owned and known volume counts",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSeriesList),
}

var seriesShowCmd = &cobra.Command{
	Use:   "show <series>",
	Short: "Show one series and its volumes",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runSeriesShow),
}

var seriesAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a series; its French volume count is fetched in the background",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runSeriesAdd),
}

var seriesDeleteCmd = &cobra.Command{
	Use:   "delete <series>",
	Short: "Delete a series and all its volumes",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runSeriesDelete),
}

var seriesImageCmd = &cobra.Command{
	Use:   "image <series> <file|url>",
	Short: "Set the cover image from a local file or a URL",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runSeriesImage),
}

var seriesSyncCmd = &cobra.Command{
	Use:   "sync <series>",
	Short: "Refresh the number of volumes released in France",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runSeriesSync),
}

var (
	listJSON       bool
	addAuthor      string
	addNationality string
	addImage       string
	addSuggest     bool
	deleteYes      bool
)

func init() {
	seriesListCmd.Flags().BoolVar(&listJSON, "json", false, "print raw JSON")

	seriesAddCmd.Flags().StringVar(&addAuthor, "author", "", "author name")
	seriesAddCmd.Flags().StringVar(&addNationality, "nationality", models.DefaultNationality, "author nationality")
	seriesAddCmd.Flags().StringVar(&addImage, "image", "", "cover image file or URL")
	seriesAddCmd.Flags().BoolVar(&addSuggest, "suggest", false, "fill title, author and nationality from a suggestion")

	seriesDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	seriesCmd.AddCommand(seriesListCmd, seriesShowCmd, seriesAddCmd, seriesDeleteCmd, seriesImageCmd, seriesSyncCmd)
}

func runSeriesList(cmd *cobra.Command, _ []string, a *app.App) error {
	list := a.Store.List()
	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no series yet")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tOWNED\tFRANCE")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", shortID(s.ID), s.Title, s.Author, s.OwnedCount(), totalText(s))
	}
	return tw.Flush()
}

func runSeriesShow(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	printSeries(cmd.OutOrStdout(), s)
	return nil
}

func runSeriesAdd(cmd *cobra.Command, args []string, a *app.App) error {
	draft := models.SeriesDraft{
		Title:       strings.Join(args, " "),
		Author:      addAuthor,
		Nationality: addNationality,
	}
	if addSuggest {
		if sg := a.Suggester.Suggest(cmd.Context(), draft.Title); sg != nil {
			draft = sg.Merge(draft)
			fmt.Fprintf(cmd.OutOrStdout(), "suggestion: %s / %s / %s\n", sg.Title, sg.Author, sg.Nationality)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "no suggestion available")
		}
	}
	if addImage != "" {
		url, err := imageURL(a.Images, addImage)
		if err != nil {
			return err
		}
		draft.ImageURL = url
	}

	s, err := a.Store.AddSeries(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ added %s (%s)\n", s.Title, s.ID)
	if a.Syncer.IsSyncing(s.ID) {
		fmt.Fprintln(cmd.OutOrStdout(), "fetching volume count...")
	}
	a.Syncer.Wait()
	if got, ok := a.Store.Get(s.ID); ok && got.TotalAvailableInFrance != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%d volumes released in France\n", *got.TotalAvailableInFrance)
	}
	return nil
}

func runSeriesDelete(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}

	var confirm library.Confirmer = library.Always(true)
	if !deleteYes {
		confirm = stdinConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	deleted, err := a.Store.DeleteSeries(cmd.Context(), s.ID, confirm)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️ deleted %s\n", s.Title)
	return nil
}

func runSeriesImage(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	url, err := imageURL(a.Images, args[1])
	if err != nil {
		return err
	}
	if err := a.Store.UpdateSeriesImage(cmd.Context(), s.ID, url); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ cover updated for %s\n", s.Title)
	return nil
}

func runSeriesSync(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	a.Syncer.Sync(cmd.Context(), s.ID, s.Title)

	got, _ := a.Store.Get(s.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s volumes released in France\n", got.Title, totalText(got))
	return nil
}

// resolveSeries accepts an id, a unique id prefix or a title (case-insensitive).
func resolveSeries(store *library.Store, ref string) (models.Series, error) {
	if s, ok := store.Get(ref); ok {
		return s, nil
	}
	var matches []models.Series
	for _, s := range store.List() {
		if strings.EqualFold(s.Title, ref) {
			return s, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Series{}, fmt.Errorf("%q: %w", ref, library.ErrSeriesNotFound)
	default:
		return models.Series{}, fmt.Errorf("%q matches %d series, use a longer id", ref, len(matches))
	}
}

func imageURL(enc imagedata.Encoder, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	return enc.EncodeFile(ref)
}

func stdinConfirmer(in io.Reader, out io.Writer) library.Confirmer {
	return library.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [o/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "oui", "y", "yes":
			return true
		}
		return false
	})
}

func printSeries(w io.Writer, s models.Series) {
	fmt.Fprintf(w, "%s\n", s.Title)
	fmt.Fprintf(w, "  id:          %s\n", s.ID)
	fmt.Fprintf(w, "  author:      %s\n", s.Author)
	fmt.Fprintf(w, "  nationality: %s\n", s.Nationality)
	if s.CharacterName != "" {
		fmt.Fprintf(w, "  character:   %s\n", s.CharacterName)
	}
	fmt.Fprintf(w, "  owned:       %d / %s\n", s.OwnedCount(), totalText(s))
	if len(s.Volumes) == 0 {
		fmt.Fprintln(w, "  no volumes recorded")
		return
	}
	for _, v := range s.Volumes {
		mark := "  "
		if v.Owned {
			mark = "✅"
		}
		fmt.Fprintf(w, "  %s tome %d (%s)\n", mark, v.Number, v.ID)
	}
}

func totalText(s models.Series) string {
	if s.TotalAvailableInFrance == nil {
		return "?"
	}
	return fmt.Sprint(*s.TotalAvailableInFrance)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
