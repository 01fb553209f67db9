package types

import (
	"errors"
	"time"
)

// Config holds storage and sync parameters for the tillsync engine.
type Config struct {
	DataDir       string        `json:"data_dir" yaml:"data_dir"`             // Local store directory.
	RemoteURL     string        `json:"remote_url" yaml:"remote_url"`         // Base URL of the remote service, e.g. https://pos.example.com/api.
	AuthToken     string        `json:"auth_token" yaml:"auth_token"`         // Bearer credential attached to every remote call.
	ListenAddr    string        `json:"listen_addr" yaml:"listen_addr"`       // Local HTTP listen address for the UI-facing server.
	SyncInterval  time.Duration `json:"sync_interval" yaml:"sync_interval"`   // Wall-clock interval between opportunistic drains.
	ProbeInterval time.Duration `json:"probe_interval" yaml:"probe_interval"` // Interval between connectivity checks.
	ProbeURL      string        `json:"probe_url" yaml:"probe_url"`           // Health URL pinged by the connectivity probe; defaults to RemoteURL.
	RemoteTimeout time.Duration `json:"remote_timeout" yaml:"remote_timeout"` // Per-request timeout for remote calls.
	LogLevel      string        `json:"log_level" yaml:"log_level"`           // DEBUG, INFO, WARN, ERROR.
	LogFormat     string        `json:"log_format" yaml:"log_format"`         // TEXT or JSON.
}

// Defaults applied by Normalize.
const (
	DefaultListenAddr    = "127.0.0.1:8787"
	DefaultSyncInterval  = 30 * time.Second
	DefaultProbeInterval = 10 * time.Second
	DefaultRemoteTimeout = 15 * time.Second
)

// Config validation errors.
var (
	ErrDataDirEmpty         = errors.New("data_dir must not be empty")
	ErrRemoteURLEmpty       = errors.New("remote_url must not be empty")
	ErrSyncIntervalInvalid  = errors.New("sync_interval must be positive")
	ErrProbeIntervalInvalid = errors.New("probe_interval must be positive")
)

// Normalize fills unset optional fields with defaults. Returns a copy;
// the receiver is not modified.
func (c Config) Normalize() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SyncInterval == 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.ProbeInterval == 0 {
		c.ProbeInterval = DefaultProbeInterval
	}
	if c.RemoteTimeout == 0 {
		c.RemoteTimeout = DefaultRemoteTimeout
	}
	if c.ProbeURL == "" {
		c.ProbeURL = c.RemoteURL
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.RemoteURL == "" {
		return ErrRemoteURLEmpty
	}
	if c.SyncInterval < 0 {
		return ErrSyncIntervalInvalid
	}
	if c.ProbeInterval < 0 {
		return ErrProbeIntervalInvalid
	}
	return nil
}
