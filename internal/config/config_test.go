package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Alpha)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, FormatTable, cfg.Format)
	assert.Equal(t, 30, cfg.NormalityMinSize)
	assert.Empty(t, cfg.DataFile)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, "alpha: 0.01\nformat: json\nnormality_min_size: 20\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Alpha)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 20, cfg.NormalityMinSize)

	t.Setenv("STATKIT_ALPHA", "0.1")
	t.Setenv("STATKIT_LOG_LEVEL", "debug")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Alpha)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts := cfg.StatsOptions()
	assert.Equal(t, 0.1, opts.Alpha)
	assert.Equal(t, 20, opts.NormalityMinSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"alpha out of range", "alpha: 1.5\n"},
		{"unknown format", "format: xml\n"},
		{"unknown level", "log_level: chatty\n"},
		{"normality size", "normality_min_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
