/*
Package render turns bands of a feature grid back into map images.

Population is rendered through a Bucketizer so arbitrary densities snap to
the nearest legend colour, with transparent pixels where nobody lives.
Categorical bands are rendered by reverse palette lookup.
*/
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
)

var (
	// ErrUnknownValue is returned when a band value has no palette entry.
	ErrUnknownValue = errors.New("render: value not in palette")

	errNoBand = errors.New("render: band not present in grid")
)

func checkBand(g *grid.Grid, b grid.Band) error {
	if b < 0 || int(b) >= g.Bands() {
		return fmt.Errorf("%w: %s in %d band grid", errNoBand, b, g.Bands())
	}
	return nil
}

// Population renders the population band of g. Every pixel takes the
// colour of its nearest bucket and is opaque only where the population is
// non-zero.
func Population(g *grid.Grid, b *palette.Bucketizer) (*image.NRGBA, error) {
	if err := checkBand(g, grid.Population); err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y, grid.Population)
			e, err := b.Bucketize(int(v))
			if err != nil {
				return nil, fmt.Errorf("render: (%d, %d): %w", x, y, err)
			}
			var alpha uint8
			if v != 0 {
				alpha = 0xff
			}
			m.SetNRGBA(x, y, color.NRGBA{e.Color.R, e.Color.G, e.Color.B, alpha})
		}
	}

	return m, nil
}

// Band renders band b of g using the reference colours of p. Each value
// must match an entry of p exactly.
func Band(g *grid.Grid, b grid.Band, p palette.Palette) (*image.Paletted, error) {
	if err := checkBand(g, b); err != nil {
		return nil, err
	}

	index := make(map[uint16]uint8, p.Len())
	for i, v := range p.Values() {
		if _, ok := index[uint16(v)]; !ok {
			index[uint16(v)] = uint8(i)
		}
	}

	m := image.NewPaletted(image.Rect(0, 0, g.Width(), g.Height()), p.Colors())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y, b)
			i, ok := index[v]
			if !ok {
				return nil, fmt.Errorf("%w: %s value %d @ (%d, %d)", ErrUnknownValue, p.Name(), v, x, y)
			}
			m.SetColorIndex(x, y, i)
		}
	}

	return m, nil
}
