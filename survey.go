package mapgrid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/manifest-destiny/mapgrid/palette"
)

// Swatch is one dominant colour of a painted layer and the palette entry
// it classifies as.
type Swatch struct {
	Color  color.RGBA
	Pixels int
	Match  palette.Match
	// Known is false when the colour is further from every entry than the
	// survey tolerance.
	Known bool
}

// Hex returns the swatch colour as #rrggbb.
func (s Swatch) Hex() string {
	c, _ := colorful.MakeColor(s.Color)
	return c.Hex()
}

func reduce(m image.Image, colors int) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm != nil && len(pm.Palette) <= colors {
		return pm
	}

	q := quantize.MedianCutQuantizer{}
	pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Survey reduces the image in file to at most colors dominant colours and
// classifies each against the named palette. Swatches are returned most
// common first. Any swatch not Known points at paint that no legend entry
// covers.
func (m *MapGrid) Survey(file, name string, colors int, tolerance float64) ([]Swatch, error) {
	p, ok := palette.ByName(name)
	if !ok {
		return nil, fmt.Errorf("mapgrid: unknown palette %q", name)
	}
	if colors < 1 || colors > 256 {
		return nil, fmt.Errorf("mapgrid: invalid colour count %d", colors)
	}

	i, err := loadImage(file)
	if err != nil {
		return nil, err
	}

	pm := reduce(i, colors)

	counts := make([]int, len(pm.Palette))
	b := pm.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[pm.ColorIndexAt(x, y)]++
		}
	}

	var swatches []Swatch
	for ix, c := range pm.Palette {
		if counts[ix] == 0 {
			continue
		}
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		match := p.Classify(rgba)
		swatches = append(swatches, Swatch{
			Color:  rgba,
			Pixels: counts[ix],
			Match:  match,
			Known:  match.Distance <= tolerance,
		})
	}

	sort.SliceStable(swatches, func(a, b int) bool { return swatches[a].Pixels > swatches[b].Pixels })

	m.logger.Printf("Surveyed %d colours in \"%s\" against %s palette\n", len(swatches), file, name)

	return swatches, nil
}
