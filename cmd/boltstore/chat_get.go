// Chat get command retrieves a chat by id or url id.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var chatGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a chat by id or url id",
	Long: `Get retrieves a chat by its primary id, falling back to the
shareable url id when no chat has that primary id.

Example:
  boltstore chat get 12
  boltstore chat get my-project --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat get", err)
		}
		defer db.Close()

		chat, err := store.NewChatStore(db).Get(args[0])
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "chat %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fatal(exitSysError, "chat get", err)
		}

		return printEntity(chat)
	},
}
