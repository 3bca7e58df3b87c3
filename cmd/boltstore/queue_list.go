// Queue command group and list subcommand for the boltstore CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/store"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the offline mutation queue",
}

func init() {
	queueCmd.AddCommand(queueListCmd)
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued mutations in replay order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "queue list", err)
		}
		defer db.Close()

		queued, err := store.NewQueueStore(db).ListAll()
		if err != nil {
			fatal(exitSysError, "queue list", err)
		}

		if flagJSON {
			return printEntity(queued)
		}
		for _, m := range queued {
			fmt.Printf("%d\t%s\t%s\t%d bytes\t%s\n",
				m.ID, m.Method, m.URL, len(m.Body), m.EnqueuedAt.Format(time.RFC3339))
		}
		return nil
	},
}
