/*
Package palette implements the colour legends used by hand-painted map
layers and the nearest-colour classifier that decodes them.

A palette is an ordered list of reference colours, each mapped to an integer
value (feet, degrees Fahrenheit, inches, a category or a population count).
Order is part of the legend: several decoders recover a value purely from
an entry's position, so entries must be declared in increasing intensity or
bucket order.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// maxDistance is larger than any distance between two 8-bit colours.
const maxDistance = 256 * 3

var errEmpty = errors.New("palette: classify against empty palette")

// Entry is a single legend entry.
type Entry struct {
	Color color.RGBA
	Value int
}

// Match is the result of classifying a colour.
type Match struct {
	Index    int
	Color    color.RGBA
	Value    int
	Distance float64
}

// Palette is an immutable ordered legend.
type Palette struct {
	name    string
	entries []Entry
}

// New returns a palette with a copy of entries. It returns an error if two
// entries share the same colour as nearest-match would be ambiguous.
func New(name string, entries ...Entry) (Palette, error) {
	dup := append([]Entry(nil), entries...)
	seen := make(map[color.RGBA]int, len(dup))
	for i := range dup {
		dup[i].Color.A = 0xff
		if j, ok := seen[dup[i].Color]; ok {
			return Palette{}, fmt.Errorf("palette: %s entries %d and %d share colour %v", name, j, i, dup[i].Color)
		}
		seen[dup[i].Color] = i
	}
	return Palette{
		name:    name,
		entries: dup,
	}, nil
}

func mustNew(name string, entries ...Entry) Palette {
	p, err := New(name, entries...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the legend name
func (p Palette) Name() string {
	return p.name
}

// Len returns the number of entries
func (p Palette) Len() int {
	return len(p.entries)
}

// Entry returns the i'th entry in declaration order.
func (p Palette) Entry(i int) Entry {
	return p.entries[i]
}

// Values returns the values in declaration order. The position of a value
// in the returned slice is the index Classify reports for its colour.
func (p Palette) Values() []int {
	v := make([]int, len(p.entries))
	for i, e := range p.entries {
		v[i] = e.Value
	}
	return v
}

// Colors returns the reference colours as a color.Palette.
func (p Palette) Colors() color.Palette {
	c := make(color.Palette, len(p.entries))
	for i, e := range p.entries {
		c[i] = e.Color
	}
	return c
}

// ColorOf returns the reference colour of the first entry with value v.
func (p Palette) ColorOf(v int) (color.RGBA, bool) {
	for _, e := range p.entries {
		if e.Value == v {
			return e.Color, true
		}
	}
	return color.RGBA{}, false
}

// Increasing reports whether values strictly increase in declaration order.
func (p Palette) Increasing() bool {
	for i := 1; i < len(p.entries); i++ {
		if p.entries[i].Value <= p.entries[i-1].Value {
			return false
		}
	}
	return true
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{n.R, n.G, n.B, 0xff}
}

// Distance returns the weighted "redmean" distance between two colours.
// Both weighted terms are truncated with a right shift before summing.
func Distance(c1, c2 color.Color) float64 {
	a, b := toRGBA(c1), toRGBA(c2)

	rmean := (int(a.R) + int(b.R)) / 2
	r := int(a.R) - int(b.R)
	g := int(a.G) - int(b.G)
	bl := int(a.B) - int(b.B)

	return math.Sqrt(float64(((512+rmean)*r*r)>>8 + 4*g*g + ((767-rmean)*bl*bl)>>8))
}

// Classify returns the entry nearest to c. On equal distance the earliest
// entry wins. Classify panics on an empty palette.
func (p Palette) Classify(c color.Color) Match {
	if len(p.entries) == 0 {
		panic(errEmpty)
	}

	m := Match{Distance: maxDistance}
	for i, e := range p.entries {
		if d := Distance(c, e.Color); d < m.Distance {
			m = Match{
				Index:    i,
				Color:    e.Color,
				Value:    e.Value,
				Distance: d,
			}
		}
	}
	return m
}

// Lookup classifies c and reports whether the match lies within tolerance.
// A tolerance of zero only accepts exact reference colours.
func (p Palette) Lookup(c color.Color, tolerance float64) (Match, bool) {
	m := p.Classify(c)
	return m, m.Distance <= tolerance
}
