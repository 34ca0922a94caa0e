package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mangatheque/internal/app"
	"mangatheque/pkg/models"
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Manage the volumes of a series",
}

var volumeAddCmd = &cobra.Command{
	Use:   "add <series> <number>...",
	Short: "Record volume numbers; existing numbers are left alone",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withApp(runVolumeAdd),
}

var volumeToggleCmd = &cobra.Command{
	Use:   "toggle <series> <number|volume-id>",
	Short: "Flip the owned flag of a volume",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runVolumeToggle),
}

var volumeDeleteCmd = &cobra.Command{
	Use:   "delete <series> <number|volume-id>",
	Short: "Remove a volume from a series",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runVolumeDelete),
}

func init() {
	volumeCmd.AddCommand(volumeAddCmd, volumeToggleCmd, volumeDeleteCmd)
}

func runVolumeAdd(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	for _, raw := range args[1:] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("volume number %q: not an integer", raw)
		}
		added, err := a.Store.AddVolume(cmd.Context(), s.ID, n)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ tome %d added\n", n)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "tome %d already recorded\n", n)
		}
	}
	return nil
}

func runVolumeToggle(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	v, err := resolveVolume(s, args[1])
	if err != nil {
		return err
	}
	if _, err := a.Store.ToggleVolumeOwned(cmd.Context(), s.ID, v.ID); err != nil {
		return err
	}
	state := "owned"
	if v.Owned {
		state = "to buy"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tome %d is now %s\n", v.Number, state)
	return nil
}

func runVolumeDelete(cmd *cobra.Command, args []string, a *app.App) error {
	s, err := resolveSeries(a.Store, args[0])
	if err != nil {
		return err
	}
	v, err := resolveVolume(s, args[1])
	if err != nil {
		return err
	}
	if _, err := a.Store.DeleteVolume(cmd.Context(), s.ID, v.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️ tome %d removed\n", v.Number)
	return nil
}

// resolveVolume matches ref against volume ids first, then numbers.
func resolveVolume(s models.Series, ref string) (models.Volume, error) {
	for _, v := range s.Volumes {
		if v.ID == ref {
			return v, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		for _, v := range s.Volumes {
			if v.Number == n {
				return v, nil
			}
		}
	}
	return models.Volume{}, fmt.Errorf("%s has no volume %q", s.Title, ref)
}
