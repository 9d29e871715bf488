package main

import (
	"github.com/spf13/cobra"

	"github.com/blockberries/elderberry/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write a configuration file with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.NewDefaultConfig().WriteFile(args[0]); err != nil {
				return err
			}
			a.printf("wrote %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}
