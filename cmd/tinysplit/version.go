package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tinysplit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tinysplit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tinysplit version %s\n", strings.TrimSpace(tinysplit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
