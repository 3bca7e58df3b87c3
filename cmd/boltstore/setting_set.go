// Setting set command writes a setting value.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var settingSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Long: `Set writes a setting. The value must be valid JSON; bare strings
get quoted automatically.

Example:
  boltstore setting set promptId '"optimized"'
  boltstore setting set isDeveloperMode true
  boltstore setting set tabConfiguration '{"userTabs":[],"developerTabs":[]}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		value := json.RawMessage(raw)
		if !json.Valid(value) {
			quoted, err := json.Marshal(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid value %q\n", raw)
				os.Exit(exitUserError)
			}
			value = quoted
		}

		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "setting set", err)
		}
		defer db.Close()

		if err := store.NewSettingStore(db).Put(key, value); err != nil {
			fatal(exitSysError, "setting set", err)
		}

		fmt.Printf("Set %s = %s\n", key, string(value))
		return nil
	},
}
