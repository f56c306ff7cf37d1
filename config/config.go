/*
Package config describes a map conversion run: which layer images to read,
how each one is decoded and which of the alternative gradient and
population behaviours are active.

The configuration is read from YAML. Any value missing from the file keeps
its default, so an empty file reproduces the reference workflow.
*/
package config

import (
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"

	"github.com/manifest-destiny/mapgrid/assemble"
	"github.com/manifest-destiny/mapgrid/gradient"
	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"gopkg.in/yaml.v3"
)

// Layer configures the decoding of one band.
type Layer struct {
	Path      string  `yaml:"path,omitempty"`
	Palette   string  `yaml:"palette,omitempty"`
	Method    string  `yaml:"method,omitempty"`
	Step      float64 `yaml:"step,omitempty"`
	Rounding  string  `yaml:"rounding,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Config is a complete run configuration. Layers are keyed by band name.
type Config struct {
	Bands          int              `yaml:"bands"`
	Gradient       string           `yaml:"gradient"`
	PopulationZero string           `yaml:"population_zero"`
	Scale          int              `yaml:"scale"`
	Layers         map[string]Layer `yaml:"layers"`
}

func nearest(path, name string) Layer {
	return Layer{Path: path, Palette: name, Method: assemble.Nearest.String()}
}

func indexed(path, name string, step float64, r assemble.Rounding) Layer {
	return Layer{Path: path, Palette: name, Method: assemble.Indexed.String(), Step: step, Rounding: r.String()}
}

// Default returns the configuration of the reference workflow. Layer
// images are the cleaned maps under data/img; the population layer has no
// default path as it is supplied per run.
func Default() *Config {
	return &Config{
		Bands:          grid.NumBands,
		Gradient:       gradient.PerFiftyFeet.String(),
		PopulationZero: palette.ZeroCorrected.String(),
		Scale:          1,
		Layers: map[string]Layer{
			grid.Elevation.String():     indexed("data/img/usa_topo_iso.png", palette.NameElevation, 5.5, assemble.Ceil),
			grid.Water.String():         nearest("data/img/usa_water_iso.png", palette.NameWater),
			grid.Temperature.String():   indexed("data/img/usa_temp_iso.png", palette.NameTemperature, 15, assemble.Floor),
			grid.Precipitation.String(): indexed("data/img/usa_precip_iso.png", palette.NamePrecipitation, 15, assemble.Floor),
			grid.Resource.String():      nearest("data/img/usa_resource_iso.png", palette.NameResource),
			grid.Biome.String():         nearest("data/img/usa_biome_iso.png", palette.NameBiome),
			grid.Population.String():    nearest("", palette.NamePopulation),
		},
	}
}

func merge(dst, src Layer) Layer {
	if src.Path != "" {
		dst.Path = src.Path
	}
	if src.Palette != "" {
		dst.Palette = src.Palette
	}
	if src.Method != "" {
		dst.Method = src.Method
	}
	if src.Step != 0 {
		dst.Step = src.Step
	}
	if src.Rounding != "" {
		dst.Rounding = src.Rounding
	}
	if src.Tolerance != 0 {
		dst.Tolerance = src.Tolerance
	}
	return dst
}

// Parse returns the defaults overlaid with the YAML in b. Relative layer
// paths in b are resolved against dir.
func Parse(b []byte, dir string) (*Config, error) {
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c := Default()
	if file.Bands != 0 {
		c.Bands = file.Bands
	}
	if file.Gradient != "" {
		c.Gradient = file.Gradient
	}
	if file.PopulationZero != "" {
		c.PopulationZero = file.PopulationZero
	}
	if file.Scale != 0 {
		c.Scale = file.Scale
	}
	for name, l := range file.Layers {
		if l.Path != "" && !filepath.IsAbs(l.Path) && dir != "" {
			l.Path = filepath.Join(dir, l.Path)
		}
		c.Layers[name] = merge(c.Layers[name], l)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the named YAML file. An empty name returns the defaults.
func Load(file string) (*Config, error) {
	if file == "" {
		return Default(), nil
	}
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(b, filepath.Dir(file))
}

// Validate checks every mode name, palette name and layer band.
func (c *Config) Validate() error {
	if c.Bands != grid.LegacyBands && c.Bands != grid.NumBands {
		return fmt.Errorf("config: bands must be %d or %d, not %d", grid.LegacyBands, grid.NumBands, c.Bands)
	}
	if c.Scale < 1 {
		return fmt.Errorf("config: scale must be at least 1, not %d", c.Scale)
	}
	if _, err := gradient.ParseMode(c.Gradient); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.ZeroPolicy(); err != nil {
		return err
	}
	_, err := c.Assembler(nil)
	return err
}

// GradientMode returns the gradient formula in use.
func (c *Config) GradientMode() gradient.Mode {
	m, _ := gradient.ParseMode(c.Gradient)
	return m
}

// ZeroPolicy returns the population zero policy in use.
func (c *Config) ZeroPolicy() (palette.ZeroPolicy, error) {
	switch c.PopulationZero {
	case palette.ZeroCorrected.String():
		return palette.ZeroCorrected, nil
	case palette.ZeroLegacy.String():
		return palette.ZeroLegacy, nil
	}
	return 0, fmt.Errorf("config: unknown population zero policy %q", c.PopulationZero)
}

// Bucketizer returns the population bucketizer for the configured policy.
func (c *Config) Bucketizer() (*palette.Bucketizer, error) {
	z, err := c.ZeroPolicy()
	if err != nil {
		return nil, err
	}
	p := palette.Population()
	if l, ok := c.Layers[grid.Population.String()]; ok && l.Palette != "" {
		if p, ok = palette.ByName(l.Palette); !ok {
			return nil, fmt.Errorf("config: unknown palette %q", l.Palette)
		}
	}
	return palette.NewBucketizer(p, z)
}

// AssembleLayers converts the layer table into assembler layers sorted by
// band. Layers for bands beyond the configured band count are skipped.
func (c *Config) AssembleLayers() ([]assemble.Layer, error) {
	var layers []assemble.Layer
	for name, l := range c.Layers {
		b, err := grid.ParseBand(name)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if int(b) >= c.Bands {
			continue
		}

		p, ok := palette.ByName(l.Palette)
		if !ok {
			return nil, fmt.Errorf("config: %s layer: unknown palette %q", name, l.Palette)
		}
		m, err := assemble.ParseMethod(l.Method)
		if err != nil {
			return nil, fmt.Errorf("config: %s layer: %w", name, err)
		}

		layer := assemble.Layer{
			Band:      b,
			Palette:   p,
			Method:    m,
			Tolerance: l.Tolerance,
			Step:      l.Step,
		}
		if m == assemble.Indexed {
			if layer.Rounding, err = assemble.ParseRounding(l.Rounding); err != nil {
				return nil, fmt.Errorf("config: %s layer: %w", name, err)
			}
		}
		layers = append(layers, layer)
	}

	sort.Slice(layers, func(i, j int) bool { return layers[i].Band < layers[j].Band })
	return layers, nil
}

// Assembler returns an assembler for the configuration.
func (c *Config) Assembler(logger *log.Logger) (*assemble.Assembler, error) {
	layers, err := c.AssembleLayers()
	if err != nil {
		return nil, err
	}
	return assemble.New(c.Bands, c.GradientMode(), logger, layers...)
}
