package grid

import (
	"bytes"
	"encoding/binary"
	"io"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(g *Grid) error {
	b := make([]byte, len(g.values)*valueBytes+trailerBytes)

	// Write out values
	for i, v := range g.values {
		binary.LittleEndian.PutUint16(b[i*valueBytes:], v)
	}

	// Write out shape
	t := b[len(b)-trailerBytes:]
	binary.LittleEndian.PutUint16(t[0:], uint16(g.width))
	binary.LittleEndian.PutUint16(t[2:], uint16(g.height))
	binary.LittleEndian.PutUint16(t[4:], uint16(g.bands))

	_, err := e.w.Write(b)
	return err
}

// MarshalBinary encodes the grid into binary form and returns the result
func (g *Grid) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	e := encoder{w: b}
	if err := e.encode(g); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Encode writes the grid g to w.
func Encode(w io.Writer, g *Grid) error {
	e := encoder{w: w}
	return e.encode(g)
}
