package main

import (
	"os"

	"github.com/templui/hoaxify/cmd/hoaxctl/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hoaxctl",
		Short:        "Operator tools for hoaxify",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
