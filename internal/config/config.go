// Package config loads the optional .exprc.yaml project file that
// configures default CLI behavior: where compiled output lands, which
// paths the compile subcommand suggests linking against, and which file
// feeds the run subcommand's read_int calls instead of stdin.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// FileName is the project config file name discovered in a directory.
const FileName = ".exprc.yaml"

// Config holds every project-level default the CLI falls back to.
type Config struct {
	// OutputTemplate names the emitted-assembly path for `compile`, with
	// "{base}" substituted for the input file's name without extension.
	OutputTemplate string `yaml:"output_template"`
	// RuntimeLibPaths are printed as a link hint after a successful compile.
	RuntimeLibPaths []string `yaml:"runtime_lib_paths"`
	// DefaultStdin, if set, names the file `run` reads read_int input from
	// in place of stdin, whether or not stdin is piped. If the file cannot
	// be opened, `run` reads stdin.
	DefaultStdin string `yaml:"default_stdin"`
}

// Default returns the configuration the CLI uses when no .exprc.yaml is
// found.
func Default() *Config {
	return &Config{OutputTemplate: "{base}.s"}
}

// Load parses path as a .exprc.yaml document, filling in Default() for any
// field the document omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for FileName in dir and loads it if present, returning
// Default() otherwise. It never treats a missing file as an error.
func Discover(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// OutputPath renders OutputTemplate for an input source file.
func (c *Config) OutputPath(inputFile string) string {
	base := filepath.Base(inputFile)
	base = base[:len(base)-len(filepath.Ext(base))]
	out := c.OutputTemplate
	if out == "" {
		out = Default().OutputTemplate
	}
	return strings.ReplaceAll(out, "{base}", base)
}
