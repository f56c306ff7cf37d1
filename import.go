package mapgrid

import (
	"fmt"
	"image"

	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"github.com/manifest-destiny/mapgrid/render"
)

// Render returns an image of band b of g. Population is rendered through
// the configured bucketizer, other bands through their layer palette.
func (m *MapGrid) Render(g *grid.Grid, b grid.Band) (image.Image, error) {
	if b == grid.Population {
		bk, err := m.config.Bucketizer()
		if err != nil {
			return nil, err
		}
		return render.Population(g, bk)
	}

	l, ok := m.config.Layers[b.String()]
	if !ok {
		return nil, fmt.Errorf("mapgrid: %s band has no palette", b)
	}
	p, ok := palette.ByName(l.Palette)
	if !ok {
		return nil, fmt.Errorf("mapgrid: unknown palette %q", l.Palette)
	}
	return render.Band(g, b, p)
}

// Import reads the encoded grid in file and writes band b as a PNG image
// to out.
func (m *MapGrid) Import(file, out string, b grid.Band) error {
	g, err := grid.ReadFile(file)
	if err != nil {
		return err
	}
	m.logger.Printf("Read grid of dimensions %dx%dx%d\n", g.Width(), g.Height(), g.Bands())

	i, err := m.Render(g, b)
	if err != nil {
		return err
	}

	if err := saveImage(out, i); err != nil {
		return err
	}
	m.logger.Printf("Wrote %s image to \"%s\"\n", b, out)
	return nil
}

// Compare returns the flat index of the first value that differs between
// the grids in files a and b, or -1 if they are equal.
func (m *MapGrid) Compare(a, b string) (int, error) {
	ga, err := grid.ReadFile(a)
	if err != nil {
		return -1, err
	}
	gb, err := grid.ReadFile(b)
	if err != nil {
		return -1, err
	}
	return grid.Compare(ga, gb)
}
