package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (testing.T.Chdir is unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(envConfigPath, "")

	got, err := Load("")
	require.NoError(t, err)

	want := Config{
		Server:    ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Storage:   StorageConfig{Driver: "memory", Path: "recharge.db", Seed: true},
		Log:       LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Session:   SessionConfig{TickInterval: time.Second, Retention: time.Hour, CleanupInterval: 5 * time.Minute},
		Recommend: RecommendConfig{Limit: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recharge.yaml")
	content := `
storage:
  driver: sqlite
  path: /var/lib/recharge/recharge.db
session:
  tick_interval: 500ms
recommend:
  limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("RECHARGE_SERVER_ADDR", ":9090")

	got, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", got.Server.Addr)
	require.Equal(t, "sqlite", got.Storage.Driver)
	require.Equal(t, "/var/lib/recharge/recharge.db", got.Storage.Path)
	require.Equal(t, 500*time.Millisecond, got.Session.TickInterval)
	require.Equal(t, 5, got.Recommend.Limit)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Storage:   StorageConfig{Driver: "memory"},
		Session:   SessionConfig{TickInterval: time.Second},
		Recommend: RecommendConfig{Limit: 3},
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"zero tick", func(c *Config) { c.Session.TickInterval = 0 }},
		{"zero limit", func(c *Config) { c.Recommend.Limit = 0 }},
	}

	require.NoError(t, valid.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
