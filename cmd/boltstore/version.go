// Version command for the boltstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/pkg/boltstore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the boltstore version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("boltstore", boltstore.Version)
	},
}
