package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/modules/modulelist"
)

var (
	moduleTitle       string
	moduleDescription string
	moduleHours       string
	confirmDelete     bool
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List, add and delete modules of the active course",
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modules of the active course",
	Long: `List the modules of the active course together with the submodule version
cached for each of them.`,
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		if err := checkFormat(); err != nil {
			return err
		}
		ctx := cmd.Context()
		ctl := modulelist.New(env.client, env.sc, env.log)
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		versions, err := env.sc.SubmoduleVersions(ctx)
		if err != nil {
			return err
		}

		modules := ctl.Modules()
		if outputFormat == "json" {
			type row struct {
				domain.Module
				SubmoduleVersion string `json:"submodule_version_id,omitempty"`
			}
			rows := make([]row, len(modules))
			for i, m := range modules {
				rows[i] = row{Module: m, SubmoduleVersion: versions[m.ID]}
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		}

		if len(modules) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No modules found")
			return nil
		}
		w := newTable(cmd.OutOrStdout())
		defer w.Flush()
		fmt.Fprintln(w, "#\tID\tTITLE\tHOURS\tSUBMODULES")
		for i, m := range modules {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, m.ID, m.Title, m.Hours, orDash(versions[m.ID]))
		}
		return nil
	}),
}

var modulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a module to the active course",
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		ctx := cmd.Context()
		ctl := modulelist.New(env.client, env.sc, env.log)
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		m, err := ctl.Add(ctx, domain.ModuleDraft{Title: moduleTitle, Description: moduleDescription, Hours: moduleHours})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added module %q (%s)\n", m.Title, m.ID)
		return nil
	}),
}

var modulesDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete the module at a position of the list",
	Long: `Delete the module at a position of the list shown by "modules list".
Nothing is deleted unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		ctx := cmd.Context()
		ctl := modulelist.New(env.client, env.sc, env.log)
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		var title string
		if modules := ctl.Modules(); index >= 0 && index < len(modules) {
			title = modules[index].Title
		}
		if err := ctl.Delete(ctx, index, confirmDelete); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted module %q\n", title)
		return nil
	}),
}

func init() {
	modulesAddCmd.Flags().StringVar(&moduleTitle, "title", "", "module title")
	modulesAddCmd.Flags().StringVar(&moduleDescription, "description", "", "module description")
	modulesAddCmd.Flags().StringVar(&moduleHours, "hours", "", "expected duration, e.g. \"2 hours\" (default 1 hour)")
	modulesDeleteCmd.Flags().BoolVarP(&confirmDelete, "yes", "y", false, "confirm the deletion")

	modulesCmd.AddCommand(modulesListCmd, modulesAddCmd, modulesDeleteCmd)
	rootCmd.AddCommand(modulesCmd)
}
