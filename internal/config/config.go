// Package config loads the settings of the atlas command.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config flag is
// given.
const EnvVar = "ATLAS_CONFIG"

type Config struct {
	// Prompt is shown before each line in the REPL.
	Prompt string `yaml:"prompt"`
	// PrintResult echoes the value of each program.
	PrintResult bool `yaml:"print_result"`
	// SilentPrint discards the output of the print builtin.
	SilentPrint bool `yaml:"silent_print"`
}

func Default() *Config {
	return &Config{
		Prompt:      "> ",
		PrintResult: true,
	}
}

// Decode reads YAML from r on top of the defaults. Unknown keys are errors.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	return c, nil
}

// Load reads the config at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	c, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// Path picks the config path: the flag value if set, else $ATLAS_CONFIG.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}
