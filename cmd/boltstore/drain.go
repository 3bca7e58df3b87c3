// Drain command replays the offline mutation queue once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/bridge"
	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/internal/syncer"
	"github.com/you112ef/boltstore/pkg/types"
)

var flagDrainBaseURL string

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay queued mutations once",
	Long: `Drain replays every queued mutation against the sync endpoint in
enqueue order and reports the outcome. Mutations the endpoint rejects
are dropped; mutations that fail transiently stay queued for the next
drain.

Example:
  boltstore drain
  boltstore drain --base-url http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "drain", err)
		}
		defer db.Close()

		b := bridge.New()
		defer b.Close()
		b.Subscribe(func(ev bridge.Event) {
			fmt.Printf("%s\t%d\t%s\n", ev.Kind, ev.MutationID, ev.Detail)
		})

		coordinator := syncer.New(
			store.NewQueueStore(db),
			store.NewSettingStore(db),
			b,
			syncer.Options{BaseURL: drainBaseURL()},
		)

		report, err := coordinator.Drain(cmd.Context())
		if err != nil {
			if errors.Is(err, types.ErrDrainLocked) {
				fmt.Fprintln(os.Stderr, "drain: another process is draining the queue")
				os.Exit(exitUserError)
			}
			if errors.Is(err, context.Canceled) {
				os.Exit(exitUserError)
			}
			fatal(exitSysError, "drain", err)
		}

		fmt.Printf("delivered %d, failed %d, remaining %d\n",
			report.Delivered, report.Failed, report.Remaining)
		if report.Stopped {
			fmt.Println("stopped early: sync endpoint unreachable")
		}
		return nil
	},
}

func init() {
	drainCmd.Flags().StringVar(&flagDrainBaseURL, "base-url", "", "sync endpoint base URL (default: config sync_base_url)")
}

// drainBaseURL resolves the sync endpoint: flag > config.yaml.
func drainBaseURL() string {
	if flagDrainBaseURL != "" {
		return flagDrainBaseURL
	}
	return configSyncURL
}
