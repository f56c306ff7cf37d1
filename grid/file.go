package grid

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks grid files that are wrapped in a zstd frame.
const CompressedExt = ".zst"

func compressed(name string) bool {
	return strings.EqualFold(filepath.Ext(name), CompressedExt)
}

// WriteFile encodes g to the named file. Names ending in CompressedExt are
// zstd compressed; the encoded grid inside the frame is unchanged.
func WriteFile(name string, g *Grid) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !compressed(name) {
		return Encode(f, g)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := Encode(enc, g); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	if !compressed(name) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFile{dec, f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// ReadFile decodes the grid stored in the named file.
func ReadFile(name string) (*Grid, error) {
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Decode(rc)
}

// ReadConfig returns the shape of the grid stored in the named file.
func ReadConfig(name string) (Config, error) {
	rc, err := open(name)
	if err != nil {
		return Config{}, err
	}
	defer rc.Close()

	return DecodeConfig(rc)
}
