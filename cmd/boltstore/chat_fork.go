// Chat fork command branches a chat at a message.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

var chatForkCmd = &cobra.Command{
	Use:   "fork <chat-id> <message-id>",
	Short: "Fork a chat at a message",
	Long: `Fork creates a new chat containing the source chat's messages up
to and including the given message, and prints the new chat's url id.

Example:
  boltstore chat fork 12 msg-0003`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat fork", err)
		}
		defer db.Close()

		urlID, err := store.NewChatStore(db).ForkChat(args[0], args[1])
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "chat %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			if errors.Is(err, types.ErrMessageNotFound) {
				fmt.Fprintf(os.Stderr, "message %q not found in chat %q\n", args[1], args[0])
				os.Exit(exitUserError)
			}
			fatal(exitSysError, "chat fork", err)
		}

		fmt.Println(urlID)
		return nil
	},
}
