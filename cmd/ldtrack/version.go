package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxbricks/ldtrack/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of ldtrack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ldtrack %s\n", version.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
