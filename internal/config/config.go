// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/woozymasta/geolayers/internal/choropleth"
	"github.com/woozymasta/geolayers/internal/graticule"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the directory generated layers are written to.
const DefaultOutput = "layers"

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

var layerName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Config represents the root configuration file structure.
type Config struct {
	Graticule *graticule.Options `yaml:"graticule,omitempty" json:"graticule,omitempty"`
	Output    string             `yaml:"output,omitempty" json:"-"`
	Layers    []Layer            `yaml:"layers" json:"layers"`
}

// Layer represents a single choropleth layer.
type Layer struct {
	// Source is a GeoJSON FeatureCollection path or http(s) URL.
	Source string `yaml:"source" json:"-"`
	// Data is an optional JSON or YAML file mapping feature ids to values.
	Data string `yaml:"data,omitempty" json:"-"`
	// Name is used in file names and URLs.
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"-"`

	choropleth.Options `yaml:",inline" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Graticule != nil {
		if cfg.Graticule.Interval == 0 {
			cfg.Graticule.Interval = graticule.DefaultInterval
		}
		if cfg.Graticule.Precision == 0 {
			cfg.Graticule.Precision = graticule.DefaultPrecision
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks layer names and sources and the graticule options.
func (c *Config) Validate() error {
	if c.Graticule != nil {
		if err := c.Graticule.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	seen := make(map[string]bool)
	for i, l := range c.Layers {
		if !layerName.MatchString(l.Name) {
			return fmt.Errorf("%w: layer %d: name %q must match %s", ErrInvalid, i, l.Name, layerName)
		}
		if l.Source == "" {
			return fmt.Errorf("%w: layer %q: source is required", ErrInvalid, l.Name)
		}

		for _, n := range append([]string{l.Name}, l.Aliases...) {
			if seen[n] {
				return fmt.Errorf("%w: duplicate layer name or alias %q", ErrInvalid, n)
			}
			seen[n] = true
		}
	}

	return nil
}

// Find returns the layer with the given name.
func (c *Config) Find(name string) (Layer, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}
