// Package config holds code generator settings, loaded from YAML and from
// compiler parameter strings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownParam is returned for a parameter key Config does not define
var ErrUnknownParam = errors.New("unknown parameter")

type Config struct {
	// OutDir is the directory generated files are written under
	OutDir string `yaml:"outDir,omitempty"`

	// Suffix is appended to each requested file's name
	Suffix string `yaml:"suffix,omitempty"`

	// Workers limits concurrent file generation (0 = auto)
	Workers int `yaml:"workers,omitempty"`

	// Validate checks request documents against the CUE contract before compiling
	Validate bool `yaml:"validate"`
}

func DefaultConfig() *Config {
	return &Config{
		OutDir:   ".",
		Suffix:   ".js",
		Workers:  0,
		Validate: true,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Params are space-separated key=value pairs: "out=gen suffix=.mjs workers=2"
var paramRe = regexp.MustCompile(`^(\w+)=(\S+)$`)

// ParseParams overlays a parameter string onto cfg
func (c *Config) ParseParams(params string) error {
	for _, token := range strings.Fields(params) {
		pair := paramRe.FindStringSubmatch(token)
		if pair == nil {
			return fmt.Errorf("malformed parameter %q in %q", token, params)
		}
		key := pair[1]
		value := pair[2]

		switch key {
		case "out":
			c.OutDir = value
		case "suffix":
			c.Suffix = value
		case "workers":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid workers: %s", value)
			}
			c.Workers = n
		case "validate":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid validate: %s", value)
			}
			c.Validate = b
		default:
			return fmt.Errorf("%w: %s", ErrUnknownParam, key)
		}
	}
	return c.check()
}

func (c *Config) check() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", c.Workers)
	}
	if c.OutDir == "" {
		return fmt.Errorf("outDir must not be empty")
	}
	return nil
}
