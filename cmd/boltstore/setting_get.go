// Setting get command resolves a setting through the migration chain.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/migrate"
	"github.com/you112ef/boltstore/internal/store"
)

var settingGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting value",
	Long: `Get resolves a setting. Cataloged keys are resolved through the
legacy migration chain, so values left behind by older releases are
promoted into the store on first read.

Example:
  boltstore setting get promptId
  boltstore setting get tabConfiguration`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := openStore()
		if err != nil {
			fatal(exitSysError, "setting get", err)
		}
		defer db.Close()

		settings := store.NewSettingStore(db)
		value, err := migrate.NewLoader(settings, cfg).Load(args[0], nil)
		if err != nil {
			fatal(exitSysError, "setting get", err)
		}
		if value == nil {
			fmt.Fprintf(os.Stderr, "setting %q not found\n", args[0])
			os.Exit(exitUserError)
		}

		fmt.Println(string(value))
		return nil
	},
}
