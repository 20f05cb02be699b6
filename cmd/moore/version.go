package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of moore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moore version %s\n", strings.TrimSpace(moore.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
