// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/geolayers/internal/overlay"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// Style overrides for the built-in overlay factories; unset values fall
	// back to the engine defaults on first ingestion.
	Style overlay.Style `yaml:"style,omitempty"`

	Layers []Layer `yaml:"layers"`
}

// Layer is a single named overlay layer fed from a GeoJSON source.
type Layer struct {
	// defining GeoJSON directly in config.yaml
	Inline map[string]interface{} `yaml:"inline_geojson,omitempty"`

	Name    string   `yaml:"name"`
	Source  string   `yaml:"source,omitempty"` // local file path or http(s) URL
	Aliases []string `yaml:"aliases,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i, l := range cfg.Layers {
		if l.Name == "" {
			return nil, fmt.Errorf("layer %d: name is required", i)
		}
		if l.Source == "" && l.Inline == nil {
			return nil, fmt.Errorf("layer %q: needs a source or inline_geojson", l.Name)
		}
	}

	return &cfg, nil
}

// NewEngine builds an overlay engine preconfigured with this config's style
// defaults.
func (c *Config) NewEngine() *overlay.Engine {
	e := overlay.New()
	e.Style = c.Style

	return e
}
