package assemble

import (
	"fmt"
	"image/color"
	"math"

	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
)

// Method selects how a layer pixel is turned into a palette entry.
type Method int

const (
	// Nearest classifies the pixel against the whole palette and accepts
	// the match if it lies within the layer tolerance.
	Nearest Method = iota
	// Indexed treats the pixel as a cleaned greyscale image where the grey
	// level is int(index*Step), and recovers the palette entry from its
	// position alone.
	Indexed
)

func (m Method) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Indexed:
		return "indexed"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the Method with the given name.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "indexed":
		return Indexed, nil
	}
	return 0, fmt.Errorf("assemble: unknown method %q", s)
}

// Rounding selects how an Indexed grey level is divided back into an index.
type Rounding int

const (
	Floor Rounding = iota
	Ceil
)

func (r Rounding) String() string {
	switch r {
	case Floor:
		return "floor"
	case Ceil:
		return "ceil"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// ParseRounding returns the Rounding with the given name.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "floor":
		return Floor, nil
	case "ceil":
		return Ceil, nil
	}
	return 0, fmt.Errorf("assemble: unknown rounding %q", s)
}

// Layer describes how one input image is decoded into one band.
type Layer struct {
	Band    grid.Band
	Palette palette.Palette
	Method  Method

	// Tolerance is the largest accepted distance for Nearest.
	Tolerance float64

	// Step and Rounding configure Indexed.
	Step     float64
	Rounding Rounding
}

func (l Layer) validate(bands int) error {
	switch {
	case l.Band == grid.Gradient:
		return fmt.Errorf("assemble: %s band is derived, not decoded", l.Band)
	case l.Band < 0 || int(l.Band) >= bands:
		return fmt.Errorf("assemble: %s band outside %d band grid", l.Band, bands)
	case l.Palette.Len() == 0:
		return fmt.Errorf("assemble: %s layer has an empty palette", l.Band)
	case l.Method == Indexed && l.Step <= 0:
		return fmt.Errorf("assemble: %s layer needs a positive step", l.Band)
	case l.Method != Nearest && l.Method != Indexed:
		return fmt.Errorf("assemble: %s layer has unknown method %d", l.Band, int(l.Method))
	}
	for _, v := range l.Palette.Values() {
		if v < 0 || v > math.MaxUint16 {
			return fmt.Errorf("assemble: %s value %d does not fit in a band", l.Palette.Name(), v)
		}
	}
	return nil
}

// Grey returns the grey level Indexed decoding expects for palette index i.
func (l Layer) Grey(i int) uint8 {
	return uint8(float64(i) * l.Step)
}

// decoder is a Layer with its palette values resolved once.
type decoder struct {
	Layer
	values []int
}

func newDecoder(l Layer) *decoder {
	return &decoder{
		Layer:  l,
		values: l.Palette.Values(),
	}
}

func (d *decoder) decode(c color.NRGBA) (int, bool) {
	if d.Method == Nearest {
		m, ok := d.Palette.Lookup(c, d.Tolerance)
		return m.Value, ok
	}

	if c.R != c.G || c.G != c.B {
		return 0, false
	}

	f := float64(c.R) / d.Step
	var i int
	if d.Rounding == Ceil {
		i = int(math.Ceil(f))
	} else {
		i = int(math.Floor(f))
	}

	if i >= len(d.values) || d.Grey(i) != c.R {
		return 0, false
	}
	return d.values[i], true
}
