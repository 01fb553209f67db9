// Config loading for the tillsync CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tillsync/internal/paths"
	"github.com/mesh-intelligence/tillsync/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir       = "data_dir"
	cfgKeyRemoteURL     = "remote_url"
	cfgKeyAuthToken     = "auth_token"
	cfgKeyListenAddr    = "listen_addr"
	cfgKeySyncInterval  = "sync_interval"
	cfgKeyProbeInterval = "probe_interval"
	cfgKeyProbeURL      = "probe_url"
	cfgKeyLogLevel      = "log_level"
	cfgKeyLogFormat     = "log_format"
)

// defaultConfigYAML is the content written to config.yaml by tillsync init.
const defaultConfigYAML = `# Tillsync configuration

# Base URL of the remote POS service (required)
# remote_url: https://pos.example.com/api

# Bearer credential for the remote service; prefer the TILLSYNC_AUTH_TOKEN
# environment variable over storing it here.
# auth_token:

# Local HTTP listen address for the UI-facing API
listen_addr: 127.0.0.1:8787

# Sync and connectivity-check intervals
sync_interval: 30s
probe_interval: 10s

# Logging
log_level: INFO
log_format: TEXT

# Data directory (optional; overridable by --data-dir flag)
# data_dir:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, with a .env overlay and TILLSYNC_* environment overrides. A missing
// config.yaml is not an error; required fields are validated later by
// types.Config.Validate.
func loadConfig() (*viper.Viper, error) {
	// Local .env files carry per-till secrets in development setups.
	_ = godotenv.Load()

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, types.DefaultListenAddr)
	v.SetDefault(cfgKeySyncInterval, types.DefaultSyncInterval)
	v.SetDefault(cfgKeyProbeInterval, types.DefaultProbeInterval)
	v.SetDefault(cfgKeyLogLevel, "INFO")
	v.SetDefault(cfgKeyLogFormat, "TEXT")

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("TILLSYNC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// engineConfig assembles the types.Config for the engine from viper values
// and flags.
func engineConfig(v *viper.Viper) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:       dataDir,
		RemoteURL:     v.GetString(cfgKeyRemoteURL),
		AuthToken:     v.GetString(cfgKeyAuthToken),
		ListenAddr:    v.GetString(cfgKeyListenAddr),
		SyncInterval:  v.GetDuration(cfgKeySyncInterval),
		ProbeInterval: v.GetDuration(cfgKeyProbeInterval),
		ProbeURL:      v.GetString(cfgKeyProbeURL),
		LogLevel:      v.GetString(cfgKeyLogLevel),
		LogFormat:     v.GetString(cfgKeyLogFormat),
	}.Normalize()

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates the config directory and a default
// config.yaml if the file does not exist. Used by tillsync init.
func ensureDefaultConfigFile() (string, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure config dir: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return path, nil
}

// commandTimeout bounds one-shot CLI operations.
const commandTimeout = 60 * time.Second
