package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trading-statistics",
	Short: "Trading account statistics dashboard",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(fetchCmd)
}

var configPath string

func Execute() error {
	return rootCmd.Execute()
}
