// Chat list command enumerates stored chats.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all chats in creation order",
	Long: `List enumerates every stored chat, ordered by numeric id.

Example:
  boltstore chat list
  boltstore chat list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat list", err)
		}
		defer db.Close()

		chats, err := store.NewChatStore(db).GetAll()
		if err != nil {
			fatal(exitSysError, "chat list", err)
		}

		if flagJSON {
			return printEntity(chats)
		}
		for _, c := range chats {
			fmt.Printf("%s\t%s\t%d messages\t%s\n", c.ID, c.URLID, len(c.Messages), c.Description)
		}
		return nil
	},
}
