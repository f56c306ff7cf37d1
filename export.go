package mapgrid

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/manifest-destiny/mapgrid/assemble"
	"github.com/manifest-destiny/mapgrid/grid"
)

var errNoPopulation = errors.New("mapgrid: no population map")

// loadBase reads every configured layer image except population.
func (m *MapGrid) loadBase() (map[grid.Band]image.Image, error) {
	layers, err := m.config.AssembleLayers()
	if err != nil {
		return nil, err
	}

	images := make(map[grid.Band]image.Image, len(layers))
	for _, l := range layers {
		if l.Band == grid.Population {
			continue
		}
		file := m.config.Layers[l.Band.String()].Path
		if file == "" {
			return nil, fmt.Errorf("mapgrid: no image for %s layer", l.Band)
		}

		i, err := loadImage(file)
		if err != nil {
			return nil, fmt.Errorf("mapgrid: %s layer: %w", l.Band, err)
		}
		m.logger.Printf("Loaded %s layer from \"%s\"\n", l.Band, file)
		images[l.Band] = i
	}

	return images, nil
}

func (m *MapGrid) withPopulation(base map[grid.Band]image.Image, cityMap string) (map[grid.Band]image.Image, error) {
	if m.config.Bands <= int(grid.Population) {
		return base, nil
	}
	if cityMap == "" {
		cityMap = m.config.Layers[grid.Population.String()].Path
	}
	if cityMap == "" {
		return nil, errNoPopulation
	}

	i, err := loadImage(cityMap)
	if err != nil {
		return nil, fmt.Errorf("mapgrid: %s layer: %w", grid.Population, err)
	}
	m.logger.Printf("Loaded %s layer from \"%s\"\n", grid.Population, cityMap)

	images := make(map[grid.Band]image.Image, len(base)+1)
	for b, i := range base {
		images[b] = i
	}
	images[grid.Population] = i
	return images, nil
}

func (m *MapGrid) build(a *assemble.Assembler, images map[grid.Band]image.Image) (*grid.Grid, error) {
	g, err := a.Assemble(images)
	if err != nil {
		return nil, err
	}

	if m.config.Scale > 1 {
		m.logger.Printf("Using resolution scale %d\n", m.config.Scale)
	}
	return g.Upsample(m.config.Scale)
}

func (m *MapGrid) write(file string, g *grid.Grid) error {
	if err := grid.WriteFile(file, g); err != nil {
		os.Remove(file)
		return err
	}
	m.logger.Printf("Wrote %dx%dx%d grid to \"%s\"\n", g.Width(), g.Height(), g.Bands(), file)
	return nil
}

// Assemble decodes images, keyed by band, with the configured layers and
// upsamples the result by the configured scale.
func (m *MapGrid) Assemble(images map[grid.Band]image.Image) (*grid.Grid, error) {
	a, err := m.config.Assembler(m.logger)
	if err != nil {
		return nil, err
	}
	return m.build(a, images)
}

// Export reads the configured layer images, with cityMap as the population
// layer, and writes the encoded grid to out. cityMap may be empty when the
// configuration names a population image or has no population band. No
// file is left behind if any step fails.
func (m *MapGrid) Export(cityMap, out string) error {
	base, err := m.loadBase()
	if err != nil {
		return err
	}
	images, err := m.withPopulation(base, cityMap)
	if err != nil {
		return err
	}

	g, err := m.Assemble(images)
	if err != nil {
		return err
	}

	return m.write(out, g)
}
