package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Check whether every module is ready for the activities step",
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		ov, err := env.wizard.Overview(cmd.Context(), env.sc)
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			type row struct {
				ModuleID  string `json:"module_id"`
				Title     string `json:"module_title"`
				State     string `json:"state"`
				VersionID string `json:"version_id,omitempty"`
				Error     string `json:"error,omitempty"`
			}
			rows := make([]row, len(ov.Cards))
			for i, card := range ov.Cards {
				rows[i] = row{ModuleID: card.Module.ID, Title: card.Module.Title, State: card.State.String(), VersionID: card.VersionID}
				if card.Err != nil {
					rows[i].Error = card.Err.Error()
				}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"modules":      rows,
				"can_continue": ov.CanContinue,
			})
		}

		out := cmd.OutOrStdout()
		w := newTable(out)
		fmt.Fprintln(w, "ID\tTITLE\tSTATE\tVERSION")
		for _, card := range ov.Cards {
			state := stateLabel(card.State)
			if card.Err != nil {
				state += " (" + card.Err.Error() + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", card.Module.ID, card.Module.Title, state, orDash(card.VersionID))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		answer := "no"
		if ov.CanContinue {
			answer = "yes"
		}
		fmt.Fprintf(out, "\nCan continue: %s\n", answer)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}
