// Chat duplicate command copies a chat in full.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var chatDuplicateCmd = &cobra.Command{
	Use:   "duplicate <chat-id>",
	Short: "Duplicate a chat",
	Long: `Duplicate copies the full message sequence of a chat into a new
chat and prints the new chat's url id.

Example:
  boltstore chat duplicate 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat duplicate", err)
		}
		defer db.Close()

		urlID, err := store.NewChatStore(db).DuplicateChat(args[0])
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "chat %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fatal(exitSysError, "chat duplicate", err)
		}

		fmt.Println(urlID)
		return nil
	},
}
