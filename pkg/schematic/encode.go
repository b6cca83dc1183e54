package schematic

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	Ext = ".schem"

	// sponge schematic format revision
	formatVersion = 2
	rootTag       = "Schematic"
)

var (
	ErrTooLarge = errors.New("schematic larger than 32767 blocks on an axis")
	ErrFormat   = errors.New("unsupported schematic")
)

type metadata struct {
	WEOffsetX int32 `nbt:"WEOffsetX"`
	WEOffsetY int32 `nbt:"WEOffsetY"`
	WEOffsetZ int32 `nbt:"WEOffsetZ"`
}

type sponge struct {
	Version     int32            `nbt:"Version"`
	DataVersion int32            `nbt:"DataVersion"`
	Width       int16            `nbt:"Width"`
	Height      int16            `nbt:"Height"`
	Length      int16            `nbt:"Length"`
	Offset      []int32          `nbt:"Offset"`
	PaletteMax  int32            `nbt:"PaletteMax"`
	Palette     map[string]int32 `nbt:"Palette"`
	BlockData   []byte           `nbt:"BlockData"`
	Metadata    metadata         `nbt:"Metadata"`
}

// Encode writes the gzip compressed sponge schematic.
func (s *Schematic) Encode(w io.Writer, dataVersion int32) error {
	if !s.fitsShort() {
		return ErrTooLarge
	}

	width, height, length := s.Size()
	palette := map[string]int32{Air: 0}
	data := make([]byte, 0, width*height*length)

	// index = x + z*width + y*width*length
	for y := 0; y < height; y++ {
		for z := 0; z < length; z++ {
			for x := 0; x < width; x++ {
				block, ok := s.blocks[Pos{s.min.X + x, s.min.Y + y, s.min.Z + z}]
				if !ok {
					block = Air
				}
				id, ok := palette[block]
				if !ok {
					id = int32(len(palette))
					palette[block] = id
				}
				data = appendVarint(data, id)
			}
		}
	}

	doc := sponge{
		Version:     formatVersion,
		DataVersion: dataVersion,
		Width:       int16(width),
		Height:      int16(height),
		Length:      int16(length),
		Offset:      []int32{int32(s.min.X), int32(s.min.Y), int32(s.min.Z)},
		PaletteMax:  int32(len(palette)),
		Palette:     palette,
		BlockData:   data,
		Metadata: metadata{
			WEOffsetX: int32(s.min.X),
			WEOffsetY: int32(s.min.Y),
			WEOffsetZ: int32(s.min.Z),
		},
	}

	gz := gzip.NewWriter(w)
	if err := nbt.NewEncoder(gz).Encode(doc, rootTag); err != nil {
		return errors.Wrap(err, "encode nbt")
	}
	return errors.WithStack(gz.Close())
}

// Save writes <dir>/<name>.schem, replacing an existing file only once the
// new one is complete.
func (s *Schematic) Save(dir, name, version string) error {
	dataVersion, err := DataVersion(version)
	if err != nil {
		return err
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name+Ext)

	tmp, err := os.CreateTemp(dir, "."+name+"-*"+Ext)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = s.Encode(bw, dataVersion); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.WithStack(err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.WithStack(err)
	}
	tmp = nil

	w, h, l := s.Size()
	schematicLog.Info("saved",
		zap.String("path", path),
		zap.Int32("dataVersion", dataVersion),
		zap.Int("blocks", s.Len()),
		zap.Int("width", w), zap.Int("height", h), zap.Int("length", l))

	return nil
}

// Load reads a sponge schematic written by Encode.
func Load(r io.Reader) (*Schematic, int32, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	defer gz.Close()

	var doc sponge
	if _, err = nbt.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, 0, errors.Wrap(err, "decode nbt")
	}
	if doc.Version != formatVersion || len(doc.Offset) != 3 {
		return nil, 0, errors.Wrapf(ErrFormat, "version %d", doc.Version)
	}

	names := make(map[int32]string, len(doc.Palette))
	for name, id := range doc.Palette {
		names[id] = name
	}

	s := New()
	width, length := int(doc.Width), int(doc.Length)
	data := doc.BlockData

	for i := 0; len(data) > 0; i++ {
		id, n := readVarint(data)
		if n == 0 {
			return nil, 0, errors.Wrapf(ErrFormat, "bad block data at %d", i)
		}
		data = data[n:]

		name, ok := names[id]
		if !ok {
			return nil, 0, errors.Wrapf(ErrFormat, "palette id %d", id)
		}
		if name == Air {
			continue
		}

		x := i % width
		z := (i / width) % length
		y := i / (width * length)
		s.SetBlock(Pos{
			X: int(doc.Offset[0]) + x,
			Y: int(doc.Offset[1]) + y,
			Z: int(doc.Offset[2]) + z,
		}, name)
	}

	return s, doc.DataVersion, nil
}

func appendVarint(buf []byte, v int32) []byte {
	u := uint32(v)
	for u >= 0x80 {
		buf = append(buf, byte(u)|0x80)
		u >>= 7
	}
	return append(buf, byte(u))
}

func readVarint(buf []byte) (int32, int) {
	var u uint32
	for i, b := range buf {
		if i == 5 {
			return 0, 0
		}
		u |= uint32(b&0x7F) << (7 * uint(i))
		if b&0x80 == 0 {
			return int32(u), i + 1
		}
	}
	return 0, 0
}
