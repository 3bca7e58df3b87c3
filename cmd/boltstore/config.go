// Config loading for the boltstore CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir          = "data_dir"
	cfgKeySyncBaseURL      = "sync_base_url"
	cfgKeyDrainInterval    = "drain_interval"
	cfgKeyLegacyKVPath     = "legacy_kv_path"
	cfgKeyLegacyCookiePath = "legacy_cookie_path"

	// Default periodic drain interval for `boltstore serve`.
	defaultDrainInterval = "5m"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Boltstore CLI configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Base URL prefixed to relative queued-mutation URLs when draining
# sync_base_url: http://localhost:8080

# Periodic drain interval for the serve command
drain_interval: 5m

# Legacy settings files migrated into the store on first use
# legacy_kv_path:
# legacy_cookie_path:
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDrainInterval, defaultDrainInterval)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
