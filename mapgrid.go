/*
Package mapgrid converts hand-painted, colour-coded raster maps into a typed
per-cell feature grid and back again.

Layer images (elevation, water, temperature, precipitation, resources,
biome and population) are decoded against fixed palettes into one
multi-band grid which is written in a compact binary form. The population
band of a grid can be rendered back into a map image.
*/
package mapgrid

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"

	"github.com/manifest-destiny/mapgrid/config"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MapGrid runs conversions for one configuration.
type MapGrid struct {
	config *config.Config
	logger *log.Logger
}

// New returns a MapGrid using c. A nil logger discards output.
func New(c *config.Config, logger *log.Logger) *MapGrid {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &MapGrid{
		config: c,
		logger: logger,
	}
}

// Config returns the configuration in use
func (m *MapGrid) Config() *config.Config {
	return m.config
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	i, _, err := image.Decode(f)
	return i, err
}

func saveImage(file string, i image.Image) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(file)
		}
	}()

	return png.Encode(f, i)
}
