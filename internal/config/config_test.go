package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// TestLoad_ParsesFile tests loading a full configuration file.
func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, `
generator = "i3status"
args = ["--no-color"]
generator_config = "/etc/i3status.conf"
debug = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "i3status", cfg.Generator)
	assert.Equal(t, []string{"--no-color"}, cfg.Args)
	assert.Equal(t, "/etc/i3status.conf", cfg.GeneratorConfig)
	assert.True(t, cfg.Debug)
}

// TestLoad_MissingFileUsesDefaults tests that an absent file is not an
// error.
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestLoad_EnvFallback tests the $BARPIPE_CONFIG fallback when no path
// is given.
func TestLoad_EnvFallback(t *testing.T) {
	path := writeConfig(t, `generator = "custom-status"`)
	t.Setenv("BARPIPE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "custom-status", cfg.Generator)
}

// TestLoad_RejectsBadInput tests parse and validation failures.
func TestLoad_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "MalformedTOML", contents: `generator = [`},
		{name: "EmptyGenerator", contents: `generator = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.contents)

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
