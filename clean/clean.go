/*
Package clean normalises raw hand-painted map layers.

Painted maps contain antialiased edges and colours that drift from the
legend. Cleaning snaps every pixel to its nearest palette entry and writes
one of three outputs: a greyscale index image suitable for indexed
decoding, a colour image using only legend colours, or a greyscale preview
of vertical elevation change.
*/
package clean

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/manifest-destiny/mapgrid/gradient"
	"github.com/manifest-destiny/mapgrid/palette"
)

// Mode selects the cleaned output.
type Mode int

const (
	// Index writes grey level int(index*step) for each pixel's entry.
	Index Mode = iota
	// Snap writes each pixel's nearest reference colour.
	Snap
	// Gradient writes the visual gradient of the classified values.
	Gradient
)

var modeNames = map[Mode]string{
	Index:    "index",
	Snap:     "snap",
	Gradient: "gradient",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the Mode with the given name.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("clean: unknown mode %q", s)
}

var errStep = errors.New("clean: grey step does not fit the palette")

// Clean classifies every pixel of src against p and renders the result in
// mode m. Step is only used by Index and must map the last palette entry
// to a grey level no greater than 255.
func Clean(src image.Image, p palette.Palette, m Mode, step float64) (image.Image, error) {
	if p.Len() == 0 {
		return nil, errors.New("clean: empty palette")
	}
	if m == Index && (step <= 0 || float64(p.Len()-1)*step > 255) {
		return nil, fmt.Errorf("%w: %d entries at step %g", errStep, p.Len(), step)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	matches := make([]palette.Match, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			matches[y*w+x] = p.Classify(src.At(b.Min.X+x, b.Min.Y+y))
		}
	}

	r := image.Rect(0, 0, w, h)
	switch m {
	case Index:
		out := image.NewGray(r)
		for i, match := range matches {
			out.Pix[i] = uint8(float64(match.Index) * step)
		}
		return out, nil
	case Snap:
		out := image.NewRGBA(r)
		for i, match := range matches {
			out.SetRGBA(i%w, i/w, match.Color)
		}
		return out, nil
	case Gradient:
		out := image.NewGray(r)
		elev := func(x, y int) int {
			return matches[y*w+x].Value
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetGray(x, y, color.Gray{uint8(gradient.Estimate(gradient.Visual, elev, x, y, w, h))})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("clean: unknown mode %d", int(m))
	}
}
