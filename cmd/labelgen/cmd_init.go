package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labelgen/internal/config"
)

var initForce bool

// initCmd writes a default config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default labelgen.yaml",
	Long: `Creates the config file named by --config with default values.
An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	c := config.DefaultConfig()
	if dbPath != "" {
		c.Store.Path = dbPath
	}
	if err := c.Save(cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
	return nil
}
