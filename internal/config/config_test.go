package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, int64(1<<20), cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, "drop", cfg.SlowConsumer)
	assert.Empty(t, cfg.ICEServers)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 4100
ping_period: 5s
pong_wait: 12s
slow_consumer: kick
ice_servers:
  - urls: ["turn:turn.example.org:3478"]
    username: u
    credential: p
allowed_origins: ["https://docs.example.org"]
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PingPeriod)
	assert.Equal(t, 12*time.Second, cfg.PongWait)
	assert.Equal(t, "kick", cfg.SlowConsumer)
	require.Len(t, cfg.ICEServers, 1)
	assert.Equal(t, []string{"turn:turn.example.org:3478"}, cfg.ICEServers[0].URLs)
	assert.Equal(t, "u", cfg.ICEServers[0].Username)
	assert.Equal(t, []string{"https://docs.example.org"}, cfg.AllowedOrigins)
}

func TestPortFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8123")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"port":          func(c *Config) { c.Port = 0 },
		"mode":          func(c *Config) { c.Mode = "loud" },
		"log level":     func(c *Config) { c.LogLevel = "chatty" },
		"read limit":    func(c *Config) { c.ReadLimit = 0 },
		"pong wait":     func(c *Config) { c.PongWait = c.PingPeriod },
		"write wait":    func(c *Config) { c.WriteWait = 0 },
		"send buffer":   func(c *Config) { c.SendBuffer = 0 },
		"burst":         func(c *Config) { c.MessageBurst = 0 },
		"slow consumer": func(c *Config) { c.SlowConsumer = "ignore" },
		"ice urls":      func(c *Config) { c.ICEServers = []ICEServer{{Username: "x"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestKeepaliveCanBeDisabled(t *testing.T) {
	cfg := Default()
	cfg.PingPeriod = 0
	cfg.PongWait = 0
	assert.NoError(t, cfg.Validate())
}

func TestInvalidFileFails(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
