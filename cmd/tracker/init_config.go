package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jordanella.com/cursor-tracker/internal/config"
)

var flagForce bool

func newInitConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE:  runInitConfig,
	}
	cmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	return cmd
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(flagConfig); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", flagConfig)
	}

	if err := config.SaveToINI(config.NewDefaultConfig(), flagConfig); err != nil {
		return fmt.Errorf("failed to write %s: %w", flagConfig, err)
	}
	fmt.Printf("Wrote default configuration to %s\n", flagConfig)
	return nil
}
