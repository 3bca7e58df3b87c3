// Init command for the boltstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/migrate"
	"github.com/you112ef/boltstore/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize boltstore storage",
	Long: `Init creates the configuration and data directories, opens the
versioned store (running any pending schema upgrades), and migrates
settings left behind in legacy files into the store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			fatal(exitSysError, "init", err)
		}
		if err := ensureConfigDir(configDir); err != nil {
			fatal(exitSysError, "init", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			fatal(exitSysError, "init", err)
		}

		db, cfg, err := openStore()
		if err != nil {
			fatal(exitSysError, "init", err)
		}
		defer db.Close()

		settings := store.NewSettingStore(db)
		if err := migrate.NewLoader(settings, cfg).MigrateAll(); err != nil {
			fatal(exitSysError, "init: migrate settings", err)
		}

		version, err := db.Version()
		if err != nil {
			fatal(exitSysError, "init", err)
		}

		fmt.Println("Boltstore initialized successfully")
		fmt.Println("  config: ", configDir)
		fmt.Println("  data:   ", cfg.DataDir)
		fmt.Println("  schema: ", version)
		return nil
	},
}
