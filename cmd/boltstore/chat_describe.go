// Chat describe command renames a chat.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/pkg/types"
)

var chatDescribeCmd = &cobra.Command{
	Use:   "describe <chat-id> <description>",
	Short: "Set a chat's description",
	Long: `Describe replaces the chat's description. Blank descriptions are
rejected.

Example:
  boltstore chat describe 12 "Payment flow refactor"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "chat describe", err)
		}
		defer db.Close()

		if err := store.NewChatStore(db).UpdateDescription(args[0], args[1]); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "chat %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			if errors.Is(err, types.ErrEmptyDescription) {
				fmt.Fprintln(os.Stderr, "description must not be blank")
				os.Exit(exitUserError)
			}
			fatal(exitSysError, "chat describe", err)
		}

		fmt.Println("Updated chat", args[0])
		return nil
	},
}
