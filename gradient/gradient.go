/*
Package gradient estimates terrain steepness from the elevation of the four
orthogonal neighbours of a cell.

Only interior cells have neighbours on every side; cells on the border of
the grid always have a gradient of zero.
*/
package gradient

import (
	"fmt"
	"math"
)

// FeetPerPixel is the real-world width of one source map cell.
const FeetPerPixel = 15632

// lateralFeet is the lateral distance PerFiftyFeet reports change over.
const lateralFeet = 50

// Mode selects the gradient formula. The modes are not interchangeable and
// produce values on different scales.
type Mode int

const (
	// Visual is the log-scaled vertical change, clamped to 0-255, used
	// for greyscale previews. The horizontal axis is ignored.
	Visual Mode = iota
	// Ratio is the steepest axis change divided by FeetPerPixel.
	Ratio
	// PerFiftyFeet is the steepest axis change per 50 feet of lateral
	// distance, truncated to an integer.
	PerFiftyFeet
)

var modeNames = map[Mode]string{
	Visual:       "visual",
	Ratio:        "ratio",
	PerFiftyFeet: "per-fifty-feet",
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
	return 0, fmt.Errorf("gradient: unknown mode %q", s)
}

// Elevation returns the elevation in feet of cell (x, y).
type Elevation func(x, y int) int

func interior(x, y, width, height int) bool {
	return x > 0 && x < width-1 && y > 0 && y < height-1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Steepest returns the larger of the absolute vertical and horizontal
// elevation change across cell (x, y), or zero for border cells.
func Steepest(elev Elevation, x, y, width, height int) int {
	if !interior(x, y, width, height) {
		return 0
	}
	dy := elev(x, y-1) - elev(x, y+1)
	dx := elev(x-1, y) - elev(x+1, y)
	if abs(dy) > abs(dx) {
		return abs(dy)
	}
	return abs(dx)
}

// Estimate returns the gradient of cell (x, y) in a width by height grid
// using mode m.
func Estimate(m Mode, elev Elevation, x, y, width, height int) float64 {
	if !interior(x, y, width, height) {
		return 0
	}

	switch m {
	case Visual:
		d := abs(elev(x, y-1) - elev(x, y+1))
		return math.Min(math.Log(float64(d)+1)/12*255, 255)
	case Ratio:
		return float64(Steepest(elev, x, y, width, height)) / FeetPerPixel
	case PerFiftyFeet:
		return float64(lateralFeet * Steepest(elev, x, y, width, height) / FeetPerPixel)
	default:
		panic(fmt.Sprintf("gradient: unknown mode %d", int(m)))
	}
}
