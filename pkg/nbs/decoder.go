package nbs

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/song"
)

const (
	// newest format revision the decoder understands
	maxVersion = 5

	// panning byte is stored unsigned with 100 as center
	panningCenter = 100

	// strings longer than this are treated as corrupted data
	maxStringLen = 1 << 20
)

var (
	// ErrFmtNotSupported is a generic error reporting an unknown format.
	ErrFmtNotSupported = errors.New("format not supported")
	// ErrUnexpectedData is a generic error reporting that the parser encountered unexpected data.
	ErrUnexpectedData = errors.New("unexpected data content")
)

type Header struct {
	Version        int
	Instruments    int
	Length         int
	Layers         int
	Name           string
	Author         string
	OriginalAuthor string
	Description    string
	// Tempo in ticks per second
	Tempo         float64
	TimeSignature int
	Loop          bool
	LoopStart     int
}

type Decoder struct {
	r      *bufio.Reader
	offset int64

	Header Header
	Notes  []song.Note
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

func (d *Decoder) Decode() error {
	d.offset = 0
	d.Notes = d.Notes[:0]

	if err := d.parseHeader(); err != nil {
		return errors.Wrap(err, "header")
	}

	if err := d.parseNotes(); err != nil {
		return errors.Wrapf(err, "notes at offset %d", d.offset)
	}

	if d.Header.Length == 0 {
		d.Header.Length = song.MaxTick(d.Notes)
	}

	decoderLog.Debug("decoded",
		zap.String("name", d.Header.Name),
		zap.Int("version", d.Header.Version),
		zap.Int("notes", len(d.Notes)),
		zap.Int("length", d.Header.Length))

	return nil
}

// Song returns the decoded notes, valid after Decode.
func (d *Decoder) Song() *song.Song {
	return &song.Song{Notes: d.Notes, Length: d.Header.Length}
}

func (d *Decoder) parseHeader() error {
	h := &d.Header

	first, err := d.uint16()
	if err != nil {
		return err
	}

	// legacy files start with the song length, newer ones with a zero
	if first != 0 {
		h.Length = int(first)
	} else {
		var b byte
		if b, err = d.readByte(); err != nil {
			return err
		}
		h.Version = int(b)
		if h.Version > maxVersion {
			return errors.Wrapf(ErrFmtNotSupported, "nbs version %d", h.Version)
		}

		if b, err = d.readByte(); err != nil {
			return err
		}
		h.Instruments = int(b)

		if h.Version >= 3 {
			var l uint16
			if l, err = d.uint16(); err != nil {
				return err
			}
			h.Length = int(l)
		}
	}

	layers, err := d.uint16()
	if err != nil {
		return err
	}
	h.Layers = int(layers)

	for _, s := range []*string{&h.Name, &h.Author, &h.OriginalAuthor, &h.Description} {
		if *s, err = d.str(); err != nil {
			return err
		}
	}

	tempo, err := d.uint16()
	if err != nil {
		return err
	}
	h.Tempo = float64(tempo) / 100

	// auto-save flag and duration
	if err = d.skip(2); err != nil {
		return err
	}

	ts, err := d.readByte()
	if err != nil {
		return err
	}
	h.TimeSignature = int(ts)

	// minutes spent, left clicks, right clicks, blocks added, blocks removed
	if err = d.skip(5 * 4); err != nil {
		return err
	}

	// imported file name
	if _, err = d.str(); err != nil {
		return err
	}

	if h.Version >= 4 {
		loop, err := d.readByte()
		if err != nil {
			return err
		}
		h.Loop = loop != 0

		// max loop count
		if err = d.skip(1); err != nil {
			return err
		}

		start, err := d.uint16()
		if err != nil {
			return err
		}
		h.LoopStart = int(start)
	}

	return nil
}

func (d *Decoder) parseNotes() error {
	tick := -1

	for {
		jump, err := d.uint16()
		if err != nil {
			return err
		}
		if jump == 0 {
			return nil
		}
		tick += int(jump)

		layer := -1
		for {
			jump, err = d.uint16()
			if err != nil {
				return err
			}
			if jump == 0 {
				break
			}
			layer += int(jump)

			n := song.Note{Tick: tick, Layer: layer}
			if err = d.parseNote(&n); err != nil {
				return err
			}
			d.Notes = append(d.Notes, n)
		}
	}
}

func (d *Decoder) parseNote(n *song.Note) error {
	instrument, err := d.readByte()
	if err != nil {
		return err
	}
	key, err := d.readByte()
	if err != nil {
		return err
	}
	n.Instrument = int(instrument)
	n.Key = int(key)

	if d.Header.Version < 4 {
		return nil
	}

	// velocity
	if err = d.skip(1); err != nil {
		return err
	}

	pan, err := d.readByte()
	if err != nil {
		return err
	}
	n.Panning = int(pan) - panningCenter

	// fine pitch
	return d.skip(2)
}
