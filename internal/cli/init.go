package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/grid/internal/editor"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize grid storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// config.yaml is written by setup; attaching creates the data files.
			if err := a.withEditor(func(*editor.Editor) error { return nil }); err != nil {
				return err
			}
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return systemErr(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"config_dir": a.configDir,
					"data_dir":   dataDir,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grid initialized\nconfig: %s\ndata:   %s\n", a.configDir, dataDir)
			return nil
		},
	}
}
