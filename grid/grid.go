/*
Package grid implements the multi-band feature grid decoded from a set of
map layers, and its binary encoding.

A grid is width by height cells where every cell holds the same number of
unsigned 16-bit bands. Bands are positional; consumers index them by the
Band constants, never by name.

The encoding is the flattened cell values with x outermost, then y, then
band, each written as a little-endian uint16. Three more little-endian
uint16 values follow the payload giving the width, height and band count.
There is no header and no compression so an encoded grid is exactly
width*height*bands*2+6 bytes.
*/
package grid

import (
	"errors"
	"fmt"
)

// Band is the position of an attribute within a cell.
type Band int

// Band order is fixed; LegacyBands grids stop before Population.
const (
	Elevation Band = iota
	Gradient
	Water
	Temperature
	Precipitation
	Resource
	Biome
	Population
)

const (
	// LegacyBands is the band count of grids without population.
	LegacyBands = int(Population)
	// NumBands is the band count of grids with population.
	NumBands = int(Population) + 1

	maxDim = 1<<16 - 1
)

var bandNames = [NumBands]string{
	"elevation",
	"gradient",
	"water",
	"temperature",
	"precipitation",
	"resource",
	"biome",
	"population",
}

func (b Band) String() string {
	if b >= 0 && int(b) < NumBands {
		return bandNames[b]
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

// ParseBand returns the Band with the given name.
func ParseBand(s string) (Band, error) {
	for i, n := range bandNames {
		if n == s {
			return Band(i), nil
		}
	}
	return 0, fmt.Errorf("grid: unknown band %q", s)
}

var (
	// ErrShapeMismatch is returned when an encoded grid does not match
	// its own trailing shape, or two grids differ in shape.
	ErrShapeMismatch = errors.New("grid: shape mismatch")

	errBadShape = errors.New("grid: invalid shape")
)

// Grid is a width by height array of cells of bands uint16 values.
type Grid struct {
	width, height, bands int
	values               []uint16
}

func checkShape(width, height, bands int) error {
	if width < 1 || height < 1 || bands < 1 || width > maxDim || height > maxDim || bands > maxDim {
		return fmt.Errorf("%w: %dx%dx%d", errBadShape, width, height, bands)
	}
	return nil
}

// New returns a zeroed grid. Every dimension must be between 1 and 65535
// so the shape can be encoded.
func New(width, height, bands int) (*Grid, error) {
	if err := checkShape(width, height, bands); err != nil {
		return nil, err
	}
	return &Grid{
		width:  width,
		height: height,
		bands:  bands,
		values: make([]uint16, width*height*bands),
	}, nil
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// Bands returns the number of bands per cell
func (g *Grid) Bands() int { return g.bands }

func (g *Grid) offset(x, y int) int {
	return (x*g.height + y) * g.bands
}

// At returns band b of cell (x, y).
func (g *Grid) At(x, y int, b Band) uint16 {
	return g.values[g.offset(x, y)+int(b)]
}

// Set stores v in band b of cell (x, y).
func (g *Grid) Set(x, y int, b Band, v uint16) {
	g.values[g.offset(x, y)+int(b)] = v
}

// Cell returns the bands of cell (x, y). The slice aliases the grid.
func (g *Grid) Cell(x, y int) []uint16 {
	o := g.offset(x, y)
	return g.values[o : o+g.bands : o+g.bands]
}

// Values returns the flattened values in encoding order. The slice aliases
// the grid.
func (g *Grid) Values() []uint16 {
	return g.values
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.width == o.width && g.height == o.height && g.bands == o.bands
}

// Equal reports whether g and o have the same shape and values.
func (g *Grid) Equal(o *Grid) bool {
	if !g.SameShape(o) {
		return false
	}
	for i, v := range g.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

// Upsample returns a new grid where every cell of g is duplicated into a
// scale by scale block with all band values unchanged.
func (g *Grid) Upsample(scale int) (*Grid, error) {
	if scale < 1 {
		return nil, fmt.Errorf("grid: invalid scale %d", scale)
	}
	if scale == 1 {
		dup := *g
		dup.values = append([]uint16(nil), g.values...)
		return &dup, nil
	}

	out, err := New(g.width*scale, g.height*scale, g.bands)
	if err != nil {
		return nil, err
	}

	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			cell := g.Cell(x, y)
			for dx := 0; dx < scale; dx++ {
				for dy := 0; dy < scale; dy++ {
					copy(out.Cell(x*scale+dx, y*scale+dy), cell)
				}
			}
		}
	}

	return out, nil
}

// Compare returns the flat index of the first value that differs between
// a and b. It returns -1 if the grids are equal and ErrShapeMismatch if
// their shapes differ.
func Compare(a, b *Grid) (int, error) {
	if !a.SameShape(b) {
		return -1, fmt.Errorf("%w: %dx%dx%d and %dx%dx%d", ErrShapeMismatch, a.width, a.height, a.bands, b.width, b.height, b.bands)
	}
	for i, v := range a.values {
		if b.values[i] != v {
			return i, nil
		}
	}
	return -1, nil
}
