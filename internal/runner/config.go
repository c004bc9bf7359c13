package runner

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"pyvm/pkg/value"
)

// Config is the optional pyvm.toml run configuration.
type Config struct {
	Entry    string         `toml:"entry"`
	MaxDepth int            `toml:"max_depth"`
	MaxSteps int            `toml:"max_steps"`
	Globals  map[string]any `toml:"globals"`
}

// LoadConfig parses a TOML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if c.MaxDepth < 0 || c.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: max_depth and max_steps must not be negative", path)
	}

	return &c, nil
}

// GlobalValues converts the [globals] table to VM values.
func (c *Config) GlobalValues() (map[string]value.Value, error) {
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]value.Value, len(names))
	for _, name := range names {
		raw := c.Globals[name]
		if arr, ok := raw.([]map[string]any); ok {
			items := make([]any, len(arr))
			for i, m := range arr {
				items[i] = m
			}
			raw = items
		}
		v, err := value.FromGo(raw, false)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
