package mapgrid

import (
	"fmt"

	"github.com/manifest-destiny/mapgrid/clean"
	"github.com/manifest-destiny/mapgrid/palette"
)

// Clean snaps the painted layer image in file to the named palette and
// writes the result in mode mode as a PNG image to out.
func (m *MapGrid) Clean(file, out, name string, mode clean.Mode, step float64) error {
	p, ok := palette.ByName(name)
	if !ok {
		return fmt.Errorf("mapgrid: unknown palette %q", name)
	}

	i, err := loadImage(file)
	if err != nil {
		return err
	}

	c, err := clean.Clean(i, p, mode, step)
	if err != nil {
		return err
	}

	if err := saveImage(out, c); err != nil {
		return err
	}
	m.logger.Printf("Wrote %s cleaned %s layer to \"%s\"\n", mode, name, out)
	return nil
}
