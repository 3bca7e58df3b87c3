// Chat delete command removes a chat and its snapshot.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chat and its snapshot",
	Long: `Delete removes the chat with the given primary id together with
its editor snapshot. Deleting an absent chat is a no-op.

Example:
  boltstore chat delete 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat delete", err)
		}
		defer db.Close()

		if err := store.NewChatStore(db).Delete(args[0]); err != nil {
			fatal(exitSysError, "chat delete", err)
		}

		fmt.Println("Deleted chat", args[0])
		return nil
	},
}
