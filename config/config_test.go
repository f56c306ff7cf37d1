package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/manifest-destiny/mapgrid/assemble"
	"github.com/manifest-destiny/mapgrid/gradient"
	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, grid.NumBands, c.Bands)
	assert.Equal(t, gradient.PerFiftyFeet, c.GradientMode())
	assert.Equal(t, 1, c.Scale)

	z, err := c.ZeroPolicy()
	require.NoError(t, err)
	assert.Equal(t, palette.ZeroCorrected, z)

	layers, err := c.AssembleLayers()
	require.NoError(t, err)
	require.Len(t, layers, 7)

	want := []grid.Band{grid.Elevation, grid.Water, grid.Temperature, grid.Precipitation, grid.Resource, grid.Biome, grid.Population}
	for i, l := range layers {
		assert.Equal(t, want[i], l.Band)
	}

	assert.Equal(t, assemble.Indexed, layers[0].Method)
	assert.Equal(t, 5.5, layers[0].Step)
	assert.Equal(t, assemble.Ceil, layers[0].Rounding)
	assert.Equal(t, assemble.Indexed, layers[2].Method)
	assert.Equal(t, assemble.Floor, layers[2].Rounding)
	assert.Equal(t, assemble.Nearest, layers[1].Method)
	assert.Equal(t, "water", layers[1].Palette.Name())
}

func TestParse(t *testing.T) {
	b := []byte(`
bands: 7
gradient: ratio
population_zero: legacy
scale: 2
layers:
  elevation:
    path: topo.png
    method: nearest
    tolerance: 12.5
  biome:
    path: /abs/biome.png
`)

	c, err := Parse(b, "/maps")
	require.NoError(t, err)

	assert.Equal(t, grid.LegacyBands, c.Bands)
	assert.Equal(t, gradient.Ratio, c.GradientMode())
	assert.Equal(t, 2, c.Scale)

	z, err := c.ZeroPolicy()
	require.NoError(t, err)
	assert.Equal(t, palette.ZeroLegacy, z)

	elev := c.Layers["elevation"]
	assert.Equal(t, filepath.Join("/maps", "topo.png"), elev.Path)
	assert.Equal(t, "nearest", elev.Method)
	assert.Equal(t, 12.5, elev.Tolerance)
	// Unset fields keep their defaults
	assert.Equal(t, "elevation", elev.Palette)

	assert.Equal(t, "/abs/biome.png", c.Layers["biome"].Path)
	assert.Equal(t, "data/img/usa_water_iso.png", c.Layers["water"].Path)

	// The population layer does not fit a legacy grid
	layers, err := c.AssembleLayers()
	require.NoError(t, err)
	assert.Len(t, layers, 6)
}

func TestParseInvalid(t *testing.T) {
	tables := map[string]string{
		"syntax":         "bands: [",
		"bands":          "bands: 9",
		"scale":          "scale: -1",
		"gradient":       "gradient: steep",
		"zero policy":    "population_zero: sometimes",
		"band name":      "layers: {lava: {palette: water}}",
		"palette":        "layers: {water: {palette: lava}}",
		"method":         "layers: {water: {method: fuzzy}}",
		"rounding":       "layers: {water: {method: indexed, step: 15, rounding: round}}",
		"gradient layer": "layers: {gradient: {palette: water}}",
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(table), "")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	dir := t.TempDir()
	file := filepath.Join(dir, "mapgrid.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte("layers:\n  water:\n    path: water.png\n"), 0644))

	c, err = Load(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "water.png"), c.Layers["water"].Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBucketizer(t *testing.T) {
	c := Default()
	c.PopulationZero = "legacy"

	b, err := c.Bucketizer()
	require.NoError(t, err)
	assert.Equal(t, palette.ZeroLegacy, b.Policy())

	e, err := b.Bucketize(0)
	require.NoError(t, err)
	assert.Equal(t, 10, e.Value)
}

func TestAssembler(t *testing.T) {
	a, err := Default().Assembler(nil)
	require.NoError(t, err)
	assert.Equal(t, grid.NumBands, a.Bands())
	assert.Equal(t, gradient.PerFiftyFeet, a.GradientMode())
}
