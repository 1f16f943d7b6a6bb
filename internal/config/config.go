package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the relay's own settings. The generator configuration
// file, if any, is passed through as a launch argument and never read
// by the relay.
type Config struct {
	Generator       string   `toml:"generator"`
	Args            []string `toml:"args,omitempty"`
	GeneratorConfig string   `toml:"generator_config,omitempty"`
	Debug           bool     `toml:"debug,omitempty"`
}

// Default returns the built-in configuration: relay i3status with no
// extra arguments.
func Default() Config {
	return Config{Generator: "i3status"}
}

// Load reads the configuration file at path. An empty path falls back
// to $BARPIPE_CONFIG, then to the default location under the user
// config directory. A missing file is not an error; the defaults
// apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BARPIPE_CONFIG")
	}
	if path == "" {
		path = defaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Generator == "" {
		return cfg, fmt.Errorf("config %s: generator cannot be empty", path)
	}
	return cfg, nil
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "barpipe", "config.toml")
}
