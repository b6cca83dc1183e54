package midi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// add offset
func (d *Decoder) readByte() (byte, error) {
	var b byte
	err := binary.Read(d.r, binary.BigEndian, &b)
	if err == nil {
		d.offset += 1 // read byte
	}
	return b, err
}

func (d *Decoder) uint7() (uint8, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	return b & 0x7f, nil
}

// VarLen returns the variable length value at the exact parser location.
func (d *Decoder) varLen() (val uint32, err error) {
	buf := []byte{}
	var lastByte bool

	for !lastByte {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		buf = append(buf, b)
		lastByte = b>>7 == 0x0

		if len(buf) > 4 {
			return 0, errors.Wrap(ErrUnexpectedData, "variable length quantity longer than 4 bytes")
		}
	}

	val, _ = decodeVarint(buf)
	return val, nil
}

func (d *Decoder) varLenTxt() error {
	l, err := d.varLen()
	if err != nil {
		return unexpectedEOF(err)
	}
	return d.skip(int64(l))
}

func (d *Decoder) skip(n int64) error {
	if _, err := d.r.Seek(n, io.SeekCurrent); err != nil {
		return errors.WithStack(err)
	}
	d.offset += n
	return nil
}

// IDnSize reads a chunk header.
func (d *Decoder) IDnSize() ([4]byte, uint32, error) {
	var ID [4]byte
	if err := binary.Read(d.r, binary.BigEndian, &ID); err != nil {
		return ID, 0, err
	}
	d.offset += 4 // [4]byte ID

	var size uint32
	if err := binary.Read(d.r, binary.BigEndian, &size); err != nil {
		return ID, 0, unexpectedEOF(err)
	}
	d.offset += 4 // uint32 blockSize

	return ID, size, nil
}

func decodeVarint(buf []byte) (x uint32, n int) {
	if len(buf) < 1 {
		return 0, 0
	}

	if buf[0] < 0x80 {
		return uint32(buf[0]), 1
	}

	var b byte
	for _, b = range buf {
		x = x << 7
		x |= uint32(b) & 0x7F
		n++
		if b&0x80 == 0 {
			return x, n
		}
	}

	return x, n
}

func isVoiceMsgType(b byte) bool {
	return 0x8 <= b && b <= 0xE
}

// inside a chunk the end of file is never expected
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return errors.WithStack(io.ErrUnexpectedEOF)
	}
	return err
}
