package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulation(t *testing.T) {
	g, err := grid.New(3, 2, grid.NumBands)
	require.NoError(t, err)
	g.Set(1, 0, grid.Population, 60000)
	g.Set(2, 1, grid.Population, 480)
	g.Set(0, 1, grid.Population, 4)

	corrected, err := palette.NewBucketizer(palette.Population(), palette.ZeroCorrected)
	require.NoError(t, err)

	m, err := Population(g, corrected)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Bounds().Dx())
	assert.Equal(t, 2, m.Bounds().Dy())

	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, m.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, m.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{168, 244, 0, 255}, m.NRGBAAt(2, 1))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, m.NRGBAAt(0, 1))

	legacy, err := palette.NewBucketizer(palette.Population(), palette.ZeroLegacy)
	require.NoError(t, err)

	m, err = Population(g, legacy)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 255, 98, 0}, m.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 255, 98, 255}, m.NRGBAAt(0, 1))
}

func TestPopulationMissingBand(t *testing.T) {
	g, err := grid.New(1, 1, grid.LegacyBands)
	require.NoError(t, err)

	b, err := palette.NewBucketizer(palette.Population(), palette.ZeroCorrected)
	require.NoError(t, err)

	_, err = Population(g, b)
	assert.Error(t, err)
}

func TestBand(t *testing.T) {
	g, err := grid.New(2, 2, grid.LegacyBands)
	require.NoError(t, err)
	g.Set(0, 0, grid.Biome, 7)
	g.Set(1, 1, grid.Biome, 5)

	m, err := Band(g, grid.Biome, palette.Biome())
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{11, 139, 73, 0xff}, m.At(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, m.At(1, 0))
	assert.Equal(t, color.RGBA{255, 230, 193, 0xff}, m.At(1, 1))

	g.Set(0, 1, grid.Biome, 8)
	_, err = Band(g, grid.Biome, palette.Biome())
	assert.True(t, errors.Is(err, ErrUnknownValue))

	_, err = Band(g, grid.Population, palette.Population())
	assert.Error(t, err)
}
