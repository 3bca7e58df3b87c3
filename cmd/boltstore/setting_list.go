// Setting list command enumerates stored settings.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var settingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "setting list", err)
		}
		defer db.Close()

		settings, err := store.NewSettingStore(db).GetAll()
		if err != nil {
			fatal(exitSysError, "setting list", err)
		}

		if flagJSON {
			return printEntity(settings)
		}
		for _, s := range settings {
			fmt.Printf("%s\t%s\n", s.Key, string(s.Value))
		}
		return nil
	},
}
