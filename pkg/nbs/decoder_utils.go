package nbs

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// add offset
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.offset += 1
	}
	return b, noEOF(err)
}

func (d *Decoder) uint16() (uint16, error) {
	var v uint16
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		return 0, noEOF(err)
	}
	d.offset += 2
	return v, nil
}

func (d *Decoder) uint32() (uint32, error) {
	var v uint32
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		return 0, noEOF(err)
	}
	d.offset += 4
	return v, nil
}

// str reads a string prefixed with its uint32 length.
func (d *Decoder) str() (string, error) {
	l, err := d.uint32()
	if err != nil {
		return "", err
	}
	if l > maxStringLen {
		return "", errors.Wrapf(ErrUnexpectedData, "string of %d bytes", l)
	}

	buf := make([]byte, l)
	if _, err = io.ReadFull(d.r, buf); err != nil {
		return "", noEOF(err)
	}
	d.offset += int64(l)

	return string(buf), nil
}

func (d *Decoder) skip(n int) error {
	skipped, err := d.r.Discard(n)
	d.offset += int64(skipped)
	return noEOF(err)
}

// a song can't end in the middle of a structure
func noEOF(err error) error {
	if err == io.EOF {
		return errors.WithStack(io.ErrUnexpectedEOF)
	}
	return err
}
