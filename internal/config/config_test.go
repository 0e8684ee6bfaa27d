package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `mode: Sequential
timeout: 2s
strict_next: true
target: |
  result := args[0]
before:
  - "x := 1"
  - "y := 2"
after:
  - "z := 3"
args: [1, "two"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ModeSequential, cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.StrictNext)
	assert.Contains(t, cfg.Target, "result := args[0]")
	assert.Equal(t, []string{"x := 1", "y := 2"}, cfg.Before)
	assert.Equal(t, []string{"z := 3"}, cfg.After)
	require.Len(t, cfg.Args, 2)
	assert.Equal(t, "two", cfg.Args[1])
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `target: "result := 1"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeMiddleware, cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.StrictNext)
	assert.Empty(t, cfg.Before)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `target: "result := 1"
log_level: warn
`)
	t.Setenv("HOOKRUN_LOG_LEVEL", "debug")
	t.Setenv("HOOKRUN_MODE", "sequential")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ModeSequential, cfg.Mode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "empty path",
			path:    func(*testing.T) string { return "" },
			wantErr: ErrEmptyConfigPath,
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantErr: ErrConfigParse,
		},
		{
			name:    "broken yaml",
			path:    func(t *testing.T) string { return writeConfig(t, "target: [unclosed") },
			wantErr: ErrConfigParse,
		},
		{
			name:    "no target",
			path:    func(t *testing.T) string { return writeConfig(t, "mode: middleware") },
			wantErr: ErrConfigValidation,
		},
		{
			name:    "unknown mode",
			path:    func(t *testing.T) string { return writeConfig(t, "mode: around\ntarget: \"result := 1\"") },
			wantErr: ErrConfigValidation,
		},
		{
			name:    "negative timeout",
			path:    func(t *testing.T) string { return writeConfig(t, "timeout: -1s\ntarget: \"result := 1\"") },
			wantErr: ErrConfigValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(tc.path(t))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate_NormalisesMode(t *testing.T) {
	p := &Pipeline{Mode: "  MIDDLEWARE ", Target: "result := 1"}
	require.NoError(t, p.Validate())
	assert.Equal(t, ModeMiddleware, p.Mode)
}
