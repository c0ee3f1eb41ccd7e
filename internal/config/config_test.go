package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narayanwaraich/bookie-sub004/internal/duration"
	"github.com/narayanwaraich/bookie-sub004/internal/expiry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, expiry.DefaultPolicy(), cfg.Policy())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
tokens:
  access: 1h 30m
  reset_password: 30m
batch:
  max_bytes: 1MiB
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	p := cfg.Policy()
	assert.Equal(t, duration.Value("1h 30m"), p[expiry.Access])
	assert.Equal(t, duration.Value("30m"), p[expiry.ResetPassword])
	assert.Equal(t, duration.Value("7d"), p[expiry.Refresh])

	n, err := cfg.MaxBatchBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"invalid duration", "tokens:\n  access: 10x\n", "unknown unit"},
		{"unknown field", "tokens:\n  session: 1h\n", "session"},
		{"bad byte size", "batch:\n  max_bytes: plenty\n", "batch.max_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Tokens.Refresh = "30d"

	data, err := cfg.YAML()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
