// Package config loads the optional YAML file that carries this program's
// only user-facing settings: where to write diagnostic logs, and a verbose
// flag. Verbose is parsed but does not change what is logged or how:
// cmd/conlog's logger uses the standard date-and-time prefix whether or
// not it is set. Everything else (the child command line, the
// PTY sizing, the console modes) comes from the command line tail or the
// host console itself.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of the config file. The zero value is a
// valid config: no log file (diagnostics discarded) and non-verbose.
type Config struct {
	LogFile string `yaml:"log_file"`
	Verbose bool   `yaml:"verbose"`
}

// Load reads and parses path. A missing path is not an error: it returns
// the zero-value Config, matching the original program's zero-
// configuration operation when no "-f" flag is given. An empty path
// string is treated the same as "no file given".
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
