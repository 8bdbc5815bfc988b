package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfassina/mdtoc/internal/config"
)

func (c *cli) initCmd() *cobra.Command {
	var (
		user  bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to a config file",
		Long: `Init saves the current settings, including any flags given, to
` + config.ProjectFile + ` in the working directory, or to the user config
with --user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectFile
			if user {
				path = config.ConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveFile(path, c.cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "write the user config instead of the project file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
