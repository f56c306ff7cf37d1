package mapgrid

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/manifest-destiny/mapgrid/assemble"
	"github.com/manifest-destiny/mapgrid/grid"
)

// Ext is the extension given to encoded grid files.
const Ext = ".bin"

const workers = 10

var imageExts = map[string]bool{
	".bmp":  true,
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// OutputName returns the grid file name for the population map file,
// placed in dir.
func OutputName(dir, file string, compress bool) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + Ext
	if compress {
		name += grid.CompressedExt
	}
	return filepath.Join(dir, name)
}

func (m *MapGrid) findMaps(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Skip hidden files and directories
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !imageExts[strings.ToLower(filepath.Ext(file))] {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (m *MapGrid) mapWorker(ctx context.Context, a *assemble.Assembler, base map[grid.Band]image.Image, in <-chan string, dir string, compress bool) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			images, err := m.withPopulation(base, file)
			if err != nil {
				errc <- err
				return
			}

			g, err := m.build(a, images)
			if err != nil {
				errc <- err
				return
			}

			if err := m.write(OutputName(dir, file, compress), g); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch exports a grid for every population map image found under in,
// writing each to out with the same base name. The other layer images are
// read once and shared by every map.
func (m *MapGrid) Batch(in, out string, compress bool) error {
	dir, err := filepath.Abs(in)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	a, err := m.config.Assembler(m.logger)
	if err != nil {
		return err
	}

	base, err := m.loadBase()
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	maps, errc, err := m.findMaps(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := m.mapWorker(ctx, a, base, maps, out, compress)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
