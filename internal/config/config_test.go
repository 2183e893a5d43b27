package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "yeqown", cfg.Encoder.Engine)
	assert.Equal(t, "memory", cfg.Blob.Store)
	assert.Equal(t, 5*time.Minute, cfg.Blob.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "qrforge.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
[encoder]
engine = "skip2"

[blob]
store = "redis"
ttl = "90s"

[redis]
addr = "cache:6379"
password = "hunter2"
`), 0o600))
	t.Setenv("PORT", "")
	t.Setenv("QRFORGE_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, "skip2", cfg.Encoder.Engine)
	assert.Equal(t, "redis", cfg.Blob.Store)
	assert.Equal(t, 90*time.Second, cfg.Blob.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	out, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, out, "cache:6379")
	assert.NotContains(t, out, "hunter2")
}

func TestLoadPortOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("QRFORGE_BLOB_STORE", "s3")

	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "blob.store")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
