package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		DataDir:   "/tmp/tillsync",
		RemoteURL: "https://pos.example.com/api",
	}

	got := cfg.Normalize()

	assert.Equal(t, DefaultListenAddr, got.ListenAddr)
	assert.Equal(t, DefaultSyncInterval, got.SyncInterval)
	assert.Equal(t, DefaultProbeInterval, got.ProbeInterval)
	assert.Equal(t, DefaultRemoteTimeout, got.RemoteTimeout)
	assert.Equal(t, "https://pos.example.com/api", got.ProbeURL, "probe URL falls back to remote URL")

	assert.Empty(t, cfg.ListenAddr, "receiver must not be modified")
}

func TestConfigNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		DataDir:       "/tmp/tillsync",
		RemoteURL:     "https://pos.example.com/api",
		ProbeURL:      "https://pos.example.com/health",
		ListenAddr:    "0.0.0.0:9000",
		SyncInterval:  time.Minute,
		ProbeInterval: 5 * time.Second,
		RemoteTimeout: time.Second,
	}

	got := cfg.Normalize()
	assert.Equal(t, cfg, got)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		DataDir:   "/tmp/tillsync",
		RemoteURL: "https://pos.example.com/api",
	}.Normalize()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrDataDirEmpty},
		{"empty remote URL", func(c *Config) { c.RemoteURL = "" }, ErrRemoteURLEmpty},
		{"negative sync interval", func(c *Config) { c.SyncInterval = -time.Second }, ErrSyncIntervalInvalid},
		{"negative probe interval", func(c *Config) { c.ProbeInterval = -time.Second }, ErrProbeIntervalInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidOpKind(t *testing.T) {
	assert.True(t, ValidOpKind(OpCreate))
	assert.True(t, ValidOpKind(OpUpdate))
	assert.True(t, ValidOpKind(OpDelete))
	assert.False(t, ValidOpKind("UPSERT"))
	assert.False(t, ValidOpKind(""))
}
