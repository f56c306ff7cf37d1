package mapgrid

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/manifest-destiny/mapgrid/assemble"
	"github.com/manifest-destiny/mapgrid/clean"
	"github.com/manifest-destiny/mapgrid/config"
	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const size = 3

var white = color.RGBA{255, 255, 255, 255}

func fill(c color.Color) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func readPNG(t *testing.T, file string) image.Image {
	m, err := loadImage(file)
	require.NoError(t, err)
	return m
}

// populationMap is black apart from a single white cell at (0, 0).
func populationMap(t *testing.T, file string) {
	m := fill(palette.Population().Entry(0).Color)
	m.Set(0, 0, white)
	writePNG(t, file, m)
}

// testConfig writes flat layer images into dir. Indexed layers get black
// grey maps and nearest layers their first legend colour.
func testConfig(t *testing.T, dir string) *config.Config {
	c := config.Default()
	for name, l := range c.Layers {
		if name == grid.Population.String() {
			continue
		}
		file := filepath.Join(dir, name+".png")
		if l.Method == assemble.Indexed.String() {
			writePNG(t, file, image.NewGray(image.Rect(0, 0, size, size)))
		} else {
			p, ok := palette.ByName(l.Palette)
			require.True(t, ok)
			writePNG(t, file, fill(p.Entry(0).Color))
		}
		l.Path = file
		c.Layers[name] = l
	}
	require.NoError(t, c.Validate())
	return c
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	m := New(testConfig(t, dir), nil)

	city := filepath.Join(dir, "city.png")
	populationMap(t, city)

	out := filepath.Join(dir, "city.bin")
	require.NoError(t, m.Export(city, out))

	g, err := grid.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, size, g.Width())
	assert.Equal(t, size, g.Height())
	assert.Equal(t, grid.NumBands, g.Bands())

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			assert.Equal(t, uint16(0), g.At(x, y, grid.Elevation))
			assert.Equal(t, uint16(0), g.At(x, y, grid.Gradient))
			assert.Equal(t, uint16(palette.Temperature().Entry(0).Value), g.At(x, y, grid.Temperature))
			if x == 0 && y == 0 {
				assert.Equal(t, uint16(60000), g.At(x, y, grid.Population))
			} else {
				assert.Equal(t, uint16(0), g.At(x, y, grid.Population))
			}
		}
	}

	rendered := filepath.Join(dir, "rendered.png")
	require.NoError(t, m.Import(out, rendered, grid.Population))

	r := readPNG(t, rendered)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, color.NRGBAModel.Convert(r.At(0, 0)))
	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, color.NRGBAModel.Convert(r.At(1, 1)))

	biome := filepath.Join(dir, "biome.png")
	require.NoError(t, m.Import(out, biome, grid.Biome))
	r = readPNG(t, biome)
	assert.Equal(t, palette.Biome().Entry(0).Color, color.RGBAModel.Convert(r.At(2, 2)))

	assert.Error(t, m.Import(out, filepath.Join(dir, "gradient.png"), grid.Gradient))
}

func TestExportScaledCompressed(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir)
	c.Scale = 2
	m := New(c, nil)

	city := filepath.Join(dir, "city.png")
	populationMap(t, city)

	out := filepath.Join(dir, "city.bin.zst")
	require.NoError(t, m.Export(city, out))

	g, err := grid.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2*size, g.Width())
	assert.Equal(t, 2*size, g.Height())
	assert.Equal(t, uint16(60000), g.At(1, 1, grid.Population))
	assert.Equal(t, uint16(0), g.At(2, 2, grid.Population))
}

func TestExportLegacyBands(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir)
	c.Bands = grid.LegacyBands
	m := New(c, nil)

	out := filepath.Join(dir, "legacy.bin")
	require.NoError(t, m.Export("", out))

	cfg, err := grid.ReadConfig(out)
	require.NoError(t, err)
	assert.Equal(t, grid.Config{Width: size, Height: size, Bands: grid.LegacyBands}, cfg)
}

func TestExportFailures(t *testing.T) {
	dir := t.TempDir()
	m := New(testConfig(t, dir), nil)
	out := filepath.Join(dir, "out.bin")

	err := m.Export("", out)
	assert.True(t, errors.Is(err, errNoPopulation))
	assert.NoFileExists(t, out)

	city := filepath.Join(dir, "city.png")
	writePNG(t, city, fill(color.RGBA{1, 2, 3, 255}))

	err = m.Export(city, out)
	assert.True(t, errors.Is(err, assemble.ErrPaletteLookup))
	var lerr *assemble.LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, palette.NamePopulation, lerr.Layer)
	assert.Equal(t, 0, lerr.X)
	assert.Equal(t, 0, lerr.Y)
	assert.NoFileExists(t, out)

	small := image.NewRGBA(image.Rect(0, 0, size-1, size))
	writePNG(t, city, small)
	err = m.Export(city, out)
	assert.True(t, errors.Is(err, assemble.ErrDimensionMismatch))
	assert.NoFileExists(t, out)
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	m := New(testConfig(t, dir), nil)

	city := filepath.Join(dir, "city.png")
	populationMap(t, city)
	a := filepath.Join(dir, "a.bin")
	require.NoError(t, m.Export(city, a))

	b := filepath.Join(dir, "b.bin.zst")
	require.NoError(t, m.Export(city, b))

	i, err := m.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, i)

	empty := filepath.Join(dir, "empty.png")
	writePNG(t, empty, fill(palette.Population().Entry(0).Color))
	require.NoError(t, m.Export(empty, b))

	i, err = m.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, int(grid.Population), i)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	m := New(testConfig(t, dir), nil)

	in := filepath.Join(dir, "maps")
	require.NoError(t, os.MkdirAll(filepath.Join(in, "nested"), 0o755))
	populationMap(t, filepath.Join(in, "one.png"))
	populationMap(t, filepath.Join(in, "nested", "two.png"))
	populationMap(t, filepath.Join(in, ".hidden.png"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("not a map"), 0o644))

	out := filepath.Join(dir, "grids")
	require.NoError(t, m.Batch(in, out, true))

	for _, name := range []string{"one", "two"} {
		g, err := grid.ReadFile(filepath.Join(out, name+Ext+grid.CompressedExt))
		require.NoError(t, err)
		assert.Equal(t, uint16(60000), g.At(0, 0, grid.Population))
	}
	assert.NoFileExists(t, filepath.Join(out, ".hidden"+Ext+grid.CompressedExt))
	assert.NoFileExists(t, filepath.Join(out, "notes"+Ext+grid.CompressedExt))
}

func TestBatchFailure(t *testing.T) {
	dir := t.TempDir()
	m := New(testConfig(t, dir), nil)

	in := filepath.Join(dir, "maps")
	require.NoError(t, os.MkdirAll(in, 0o755))
	writePNG(t, filepath.Join(in, "bad.png"), fill(color.RGBA{1, 2, 3, 255}))

	err := m.Batch(in, filepath.Join(dir, "grids"), false)
	assert.True(t, errors.Is(err, assemble.ErrPaletteLookup))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "city.bin"), OutputName("out", filepath.Join("in", "city.png"), false))
	assert.Equal(t, filepath.Join("out", "city.bin.zst"), OutputName("out", "city.webp", true))
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	m := New(config.Default(), nil)

	elev := palette.Elevation()
	raw := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			raw.Set(x, y, elev.Entry(x+y*size).Color)
		}
	}
	// Slightly off-legend paint still snaps to its entry.
	off := elev.Entry(4).Color
	off.G++
	raw.Set(1, 1, off)

	in := filepath.Join(dir, "raw.png")
	writePNG(t, in, raw)

	out := filepath.Join(dir, "clean.png")
	require.NoError(t, m.Clean(in, out, palette.NameElevation, clean.Index, 5.5))

	r := readPNG(t, out)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			grey := color.GrayModel.Convert(r.At(x, y)).(color.Gray)
			assert.Equal(t, uint8(float64(x+y*size)*5.5), grey.Y)
		}
	}

	assert.Error(t, m.Clean(in, out, "nonexistent", clean.Index, 5.5))
	assert.Error(t, m.Clean(in, out, palette.NameElevation, clean.Index, 6))
}

func TestSurvey(t *testing.T) {
	dir := t.TempDir()
	m := New(config.Default(), nil)

	water := palette.Water()
	stray := color.RGBA{200, 10, 10, 255}
	p := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{water.Entry(3).Color, stray})
	p.SetColorIndex(2, 2, 1)

	in := filepath.Join(dir, "water.png")
	writePNG(t, in, p)

	swatches, err := m.Survey(in, palette.NameWater, 8, 10)
	require.NoError(t, err)
	require.Len(t, swatches, 2)

	assert.Equal(t, water.Entry(3).Color, swatches[0].Color)
	assert.Equal(t, 8, swatches[0].Pixels)
	assert.Equal(t, 3, swatches[0].Match.Value)
	assert.True(t, swatches[0].Known)
	assert.Equal(t, "#009eff", swatches[0].Hex())

	assert.Equal(t, stray, swatches[1].Color)
	assert.Equal(t, 1, swatches[1].Pixels)
	assert.False(t, swatches[1].Known)

	// Truecolour input goes through the quantizer.
	rgba := fill(water.Entry(1).Color)
	rgba.Set(0, 0, water.Entry(2).Color)
	in = filepath.Join(dir, "rgba.png")
	writePNG(t, in, rgba)

	swatches, err = m.Survey(in, palette.NameWater, 4, 10)
	require.NoError(t, err)
	total := 0
	for _, s := range swatches {
		total += s.Pixels
	}
	assert.Equal(t, size*size, total)

	_, err = m.Survey(in, palette.NameWater, 0, 10)
	assert.Error(t, err)
}
