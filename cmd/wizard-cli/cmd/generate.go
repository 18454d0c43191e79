package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <module-id>",
	Short: "Generate submodules for a module",
	Long: `Ask the course service for a new set of submodules for a module and remember
the returned version. An earlier version of the module is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, env *environment, args []string) error {
		ctx := cmd.Context()
		course, err := env.sc.Require(ctx)
		if err != nil {
			return err
		}
		module, err := env.client.GetModule(ctx, course.CourseID, course.ModuleVersionID, args[0])
		if err != nil {
			return err
		}
		versionID, err := env.wizard.Generate(ctx, env.sc, module)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated submodules for %q (version %s)\n", module.Title, versionID)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
