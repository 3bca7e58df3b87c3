// Chat command group for the boltstore CLI.
package main

import (
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage stored chats",
}

func init() {
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatGetCmd)
	chatCmd.AddCommand(chatDeleteCmd)
	chatCmd.AddCommand(chatForkCmd)
	chatCmd.AddCommand(chatDuplicateCmd)
	chatCmd.AddCommand(chatDescribeCmd)
}
