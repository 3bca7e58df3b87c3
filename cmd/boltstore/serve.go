// Serve command runs the background drain loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/bridge"
	"github.com/you112ef/boltstore/internal/store"
	"github.com/you112ef/boltstore/internal/syncer"
)

var flagServeInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Drain the queue periodically until interrupted",
	Long: `Serve runs the drain loop in the foreground. The queue is replayed
on a fixed interval; SIGHUP requests an immediate drain (the
connectivity-restored signal); SIGINT and SIGTERM stop the loop.

Example:
  boltstore serve
  boltstore serve --interval 1m`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			fatal(exitSysError, "serve", err)
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

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner := syncer.NewRunner(coordinator, serveInterval())
		runner.Start(ctx)
		defer runner.Stop()

		kick := make(chan os.Signal, 1)
		signal.Notify(kick, syscall.SIGHUP)
		defer signal.Stop(kick)

		fmt.Println("draining every", serveInterval())
		for {
			select {
			case <-ctx.Done():
				fmt.Println("shutting down")
				return nil
			case <-kick:
				runner.ConnectivityRestored()
			}
		}
	},
}

func init() {
	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", 0, "drain interval (default: config drain_interval)")
	serveCmd.Flags().StringVar(&flagDrainBaseURL, "base-url", "", "sync endpoint base URL (default: config sync_base_url)")
}

// serveInterval resolves the drain interval: flag > config.yaml > 5m.
func serveInterval() time.Duration {
	if flagServeInterval > 0 {
		return flagServeInterval
	}
	if d, err := time.ParseDuration(configDrainInterval); err == nil && d > 0 {
		return d
	}
	return 5 * time.Minute
}
