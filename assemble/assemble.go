/*
Package assemble decodes a set of colour-coded map layers into one
multi-band feature grid.

Every configured layer is classified pixel by pixel against its palette and
the value stored in the layer's band. The gradient band is then derived from
the classified elevation of each cell's orthogonal neighbours. A pixel that
cannot be classified aborts the whole assembly; no partial grid is returned.
*/
package assemble

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/ioutil"
	"log"

	"github.com/manifest-destiny/mapgrid/gradient"
	"github.com/manifest-destiny/mapgrid/grid"
)

var (
	// ErrPaletteLookup is matched by every *LookupError.
	ErrPaletteLookup = errors.New("assemble: palette lookup failure")
	// ErrDimensionMismatch is returned when layer images differ in size.
	ErrDimensionMismatch = errors.New("assemble: dimension mismatch")
)

// LookupError reports a layer pixel whose colour is not in the layer
// palette.
type LookupError struct {
	Layer string
	X, Y  int
	Color color.NRGBA
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("assemble: colour (%d, %d, %d) not found in %s palette @ (%d, %d)", e.Color.R, e.Color.G, e.Color.B, e.Layer, e.X, e.Y)
}

// Is makes errors.Is(err, ErrPaletteLookup) succeed.
func (e *LookupError) Is(target error) bool {
	return target == ErrPaletteLookup
}

// Assembler turns layer images into a grid. It holds no per-run state and
// may be shared between goroutines.
type Assembler struct {
	bands    int
	gradient gradient.Mode
	decoders []*decoder
	logger   *log.Logger
}

// New returns an Assembler producing grids of the given band count, which
// must be grid.LegacyBands or grid.NumBands. An elevation layer is required
// as the gradient band is derived from it. A nil logger discards output.
func New(bands int, mode gradient.Mode, logger *log.Logger, layers ...Layer) (*Assembler, error) {
	if bands != grid.LegacyBands && bands != grid.NumBands {
		return nil, fmt.Errorf("assemble: unsupported band count %d", bands)
	}
	if mode < gradient.Visual || mode > gradient.PerFiftyFeet {
		return nil, fmt.Errorf("assemble: unknown gradient mode %d", int(mode))
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	a := &Assembler{
		bands:    bands,
		gradient: mode,
		logger:   logger,
	}

	seen := make(map[grid.Band]bool)
	for _, l := range layers {
		if err := l.validate(bands); err != nil {
			return nil, err
		}
		if seen[l.Band] {
			return nil, fmt.Errorf("assemble: duplicate %s layer", l.Band)
		}
		seen[l.Band] = true
		a.decoders = append(a.decoders, newDecoder(l))
	}

	if !seen[grid.Elevation] {
		return nil, errors.New("assemble: an elevation layer is required")
	}

	return a, nil
}

// Bands returns the band count of assembled grids
func (a *Assembler) Bands() int {
	return a.bands
}

// GradientMode returns the gradient formula in use
func (a *Assembler) GradientMode() gradient.Mode {
	return a.gradient
}

// Layers returns the configured layers
func (a *Assembler) Layers() []Layer {
	l := make([]Layer, len(a.decoders))
	for i, d := range a.decoders {
		l[i] = d.Layer
	}
	return l
}

func (a *Assembler) checkImages(images map[grid.Band]image.Image) (image.Rectangle, error) {
	r := images[grid.Elevation]
	if r == nil {
		return image.Rectangle{}, errors.New("assemble: no image for elevation layer")
	}
	size := r.Bounds().Size()

	for _, d := range a.decoders {
		m, ok := images[d.Band]
		if !ok || m == nil {
			return image.Rectangle{}, fmt.Errorf("assemble: no image for %s layer", d.Band)
		}
		if s := m.Bounds().Size(); s != size {
			return image.Rectangle{}, fmt.Errorf("%w: %s layer is %dx%d, elevation is %dx%d", ErrDimensionMismatch, d.Band, s.X, s.Y, size.X, size.Y)
		}
	}

	return image.Rectangle{Max: size}, nil
}

// Assemble decodes images, keyed by band, into a new grid. Every configured
// layer needs an image and all images must be the same size. Bands with no
// configured layer are left at zero.
func (a *Assembler) Assemble(images map[grid.Band]image.Image) (*grid.Grid, error) {
	r, err := a.checkImages(images)
	if err != nil {
		return nil, err
	}

	g, err := grid.New(r.Dx(), r.Dy(), a.bands)
	if err != nil {
		return nil, err
	}

	for _, d := range a.decoders {
		m := images[d.Band]
		min := m.Bounds().Min
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				c := color.NRGBAModel.Convert(m.At(min.X+x, min.Y+y)).(color.NRGBA)
				v, ok := d.decode(c)
				if !ok {
					return nil, &LookupError{
						Layer: d.Palette.Name(),
						X:     x,
						Y:     y,
						Color: c,
					}
				}
				g.Set(x, y, d.Band, uint16(v))
			}
		}
		a.logger.Printf("Decoded %s layer using %s method\n", d.Palette.Name(), d.Method)
	}

	elev := func(x, y int) int {
		return int(g.At(x, y, grid.Elevation))
	}
	for y := 1; y < r.Dy()-1; y++ {
		for x := 1; x < r.Dx()-1; x++ {
			g.Set(x, y, grid.Gradient, uint16(gradient.Estimate(a.gradient, elev, x, y, r.Dx(), r.Dy())))
		}
	}

	a.logger.Printf("Assembled %dx%d grid with %d bands, %s gradient\n", g.Width(), g.Height(), g.Bands(), a.gradient)

	return g, nil
}
