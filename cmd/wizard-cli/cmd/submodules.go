package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/coursewizard/internal/modules/submodules"
)

var submodulesCmd = &cobra.Command{
	Use:   "submodules <module-id>",
	Short: "List the submodules generated for a module",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		ctl := submodules.New(env.client, env.sc, env.wizard, env.log)
		if err := ctl.Load(cmd.Context(), args[0]); err != nil {
			return err
		}

		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"module":      ctl.Module(),
				"version_id":  ctl.VersionID(),
				"submodules":  ctl.Submodules(),
				"suggestions": ctl.Suggestions(),
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (version %s)\n\n", ctl.Module().Title, ctl.VersionID())
		w := newTable(out)
		fmt.Fprintln(w, "#\tID\tTITLE\tDESCRIPTION")
		for i, s := range ctl.Submodules() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, s.ID, s.Title, s.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if suggestions := ctl.Suggestions(); len(suggestions) > 0 {
			fmt.Fprintln(out, "\nSuggestions:")
			for _, s := range suggestions {
				fmt.Fprintf(out, "  - %s\n", s)
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(submodulesCmd)
}
