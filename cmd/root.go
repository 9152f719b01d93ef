// Package cmd is the cobra CLI around the allocation engines.
package cmd

import (
	"github.com/spf13/cobra"

	"fleetmas/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fleetmas",
	Short: "Dynamic pickup-and-delivery fleet allocation",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}
