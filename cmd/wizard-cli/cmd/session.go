package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the active course",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <course-id> <module-version-id>",
	Short: "Enter the wizard for a course version",
	Long: `Enter the wizard for a course version. Starting a different course or module
version forgets the submodule versions generated so far.`,
	Args: cobra.ExactArgs(2),
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := env.sc.Begin(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started course %s (module version %s)\n", args[0], args[1])
		return nil
	}),
}

var verifyVersions bool

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active course and the cached submodule versions",
	Long: `Show the active course and the cached submodule versions. With --verify every
cached version is fetched from the course service; versions that no longer hold
submodules are forgotten.`,
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		ctx := cmd.Context()
		course, err := env.sc.Require(ctx)
		if err != nil {
			return err
		}
		versions, err := env.sc.SubmoduleVersions(ctx)
		if err != nil {
			return err
		}
		moduleIDs := make([]string, 0, len(versions))
		for id := range versions {
			moduleIDs = append(moduleIDs, id)
		}
		sort.Strings(moduleIDs)

		states := make(map[string]wizard.State, len(moduleIDs))
		for _, id := range moduleIDs {
			if verifyVersions {
				if _, err := env.wizard.Verify(ctx, env.sc, id); err != nil && !domain.IsStale(err) {
					return fmt.Errorf("verify %s: %w", id, err)
				}
			}
			if states[id], err = env.wizard.State(ctx, env.sc, id); err != nil {
				return err
			}
		}

		if outputFormat == "json" {
			type entry struct {
				VersionID string `json:"version_id,omitempty"`
				State     string `json:"state"`
			}
			entries := make(map[string]entry, len(moduleIDs))
			for _, id := range moduleIDs {
				e := entry{State: states[id].String()}
				if states[id] != wizard.Ungenerated {
					e.VersionID = versions[id]
				}
				entries[id] = e
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"course_id":          course.CourseID,
				"module_version_id":  course.ModuleVersionID,
				"submodule_versions": entries,
			})
		}

		w := newTable(cmd.OutOrStdout())
		defer w.Flush()
		fmt.Fprintf(w, "Course:\t%s\n", course.CourseID)
		fmt.Fprintf(w, "Module version:\t%s\n", course.ModuleVersionID)
		for _, id := range moduleIDs {
			if states[id] == wizard.Ungenerated {
				fmt.Fprintf(w, "Submodules of %s:\t-\t%s\n", id, stateLabel(states[id]))
				continue
			}
			fmt.Fprintf(w, "Submodules of %s:\t%s\t%s\n", id, versions[id], stateLabel(states[id]))
		}
		return nil
	}),
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Leave the active course",
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := env.sc.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Left the course")
		return nil
	}),
}

func init() {
	sessionShowCmd.Flags().BoolVar(&verifyVersions, "verify", false, "check every cached version against the course service")
	sessionCmd.AddCommand(sessionStartCmd, sessionShowCmd, sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}
