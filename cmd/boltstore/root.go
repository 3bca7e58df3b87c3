// Root command for the boltstore CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/you112ef/boltstore/internal/paths"
	"github.com/you112ef/boltstore/pkg/boltstore"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// configSyncURL holds the sync_base_url value loaded from config.yaml.
var configSyncURL string

// configDrainInterval holds the drain_interval value loaded from config.yaml.
var configDrainInterval string

// Legacy settings file paths loaded from config.yaml.
var (
	configLegacyKVPath     string
	configLegacyCookiePath string
)

var rootCmd = &cobra.Command{
	Use:     "boltstore",
	Short:   "Boltstore is a local-first chat persistence and sync store",
	Version: boltstore.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configSyncURL = cfg.GetString(cfgKeySyncBaseURL)
		configDrainInterval = cfg.GetString(cfgKeyDrainInterval)
		configLegacyKVPath = cfg.GetString(cfgKeyLegacyKVPath)
		configLegacyCookiePath = cfg.GetString(cfgKeyLegacyCookiePath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.boltstore)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.boltstore-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(settingCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(drainCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > BOLTSTORE_DATA_DIR env > default
// $(CWD)/.boltstore-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > BOLTSTORE_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
