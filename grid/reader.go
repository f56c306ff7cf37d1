package grid

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
)

const (
	valueBytes   = 2
	trailerBytes = 3 * valueBytes
)

type decoder struct {
	b []byte

	width, height, bands int
}

func (d *decoder) readShape() error {
	if len(d.b) < trailerBytes {
		return fmt.Errorf("%w: %d bytes is shorter than the shape trailer", ErrShapeMismatch, len(d.b))
	}

	t := d.b[len(d.b)-trailerBytes:]
	d.width = int(binary.LittleEndian.Uint16(t[0:]))
	d.height = int(binary.LittleEndian.Uint16(t[2:]))
	d.bands = int(binary.LittleEndian.Uint16(t[4:]))

	if want := d.width*d.height*d.bands*valueBytes + trailerBytes; len(d.b) != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d bytes, have %d", ErrShapeMismatch, d.width, d.height, d.bands, want, len(d.b))
	}

	return nil
}

func (d *decoder) decode(b []byte, configOnly bool) (*Grid, error) {
	d.b = b

	if err := d.readShape(); err != nil {
		return nil, err
	}

	g, err := New(d.width, d.height, d.bands)
	if err != nil {
		return nil, err
	}

	if configOnly {
		return g, nil
	}

	for i := range g.values {
		g.values[i] = binary.LittleEndian.Uint16(d.b[i*valueBytes:])
	}

	return g, nil
}

// UnmarshalBinary decodes the grid from binary form
func (g *Grid) UnmarshalBinary(b []byte) error {
	var d decoder
	n, err := d.decode(b, false)
	if err != nil {
		return err
	}
	*g = *n
	return nil
}

// Decode reads an encoded grid from r. The whole stream is consumed as the
// shape trails the payload.
func Decode(r io.Reader) (*Grid, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var d decoder
	return d.decode(b, false)
}

// Config describes the shape of an encoded grid.
type Config struct {
	Width, Height, Bands int
}

// DecodeConfig returns the shape of an encoded grid without decoding the
// values. The payload length is still checked against the shape.
func DecodeConfig(r io.Reader) (Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	var d decoder
	if _, err := d.decode(b, true); err != nil {
		return Config{}, err
	}
	return Config{
		Width:  d.width,
		Height: d.height,
		Bands:  d.bands,
	}, nil
}
