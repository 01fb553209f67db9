// Version command for the tillsync CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tillsync/pkg/tillsync"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tillsync version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tillsync", tillsync.Version)
	},
}
