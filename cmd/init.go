package cmd

import (
	"fmt"

	"github.com/chazu/cadbom/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Long: `Write a commented default config file to path, or to .cadbom/config.yaml
when omitted. An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		// The config being created need not exist or be valid yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
}
