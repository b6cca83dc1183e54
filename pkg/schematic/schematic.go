package schematic

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	Air       = "minecraft:air"
	namespace = "minecraft:"
)

type Pos struct {
	X, Y, Z int
}

// Schematic is a sparse block map. Unset positions inside the bounds are air.
type Schematic struct {
	blocks   map[Pos]string
	min, max Pos
}

func New() *Schematic {
	return &Schematic{blocks: make(map[Pos]string)}
}

// SetBlock places block at p, replacing what was there.
func (s *Schematic) SetBlock(p Pos, block string) {
	if len(s.blocks) == 0 {
		s.min, s.max = p, p
	} else {
		s.min = Pos{min(s.min.X, p.X), min(s.min.Y, p.Y), min(s.min.Z, p.Z)}
		s.max = Pos{max(s.max.X, p.X), max(s.max.Y, p.Y), max(s.max.Z, p.Z)}
	}
	s.blocks[p] = Normalize(block)
}

func (s *Schematic) Block(p Pos) (string, bool) {
	b, ok := s.blocks[p]
	return b, ok
}

func (s *Schematic) Len() int {
	return len(s.blocks)
}

// Bounds returns the inclusive corners of the placed blocks.
func (s *Schematic) Bounds() (Pos, Pos) {
	return s.min, s.max
}

// Size returns width (x), height (y) and length (z).
func (s *Schematic) Size() (int, int, int) {
	if len(s.blocks) == 0 {
		return 0, 0, 0
	}
	return s.max.X - s.min.X + 1, s.max.Y - s.min.Y + 1, s.max.Z - s.min.Z + 1
}

// Positions returns every set position in x, y, z order.
func (s *Schematic) Positions() []Pos {
	out := make([]Pos, 0, len(s.blocks))
	for p := range s.blocks {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// Equal reports whether both maps hold the same blocks at the same positions.
func (s *Schematic) Equal(o *Schematic) bool {
	if len(s.blocks) != len(o.blocks) {
		return false
	}
	for p, b := range s.blocks {
		if ob, ok := o.blocks[p]; !ok || ob != b {
			return false
		}
	}
	return true
}

// Normalize adds the minecraft namespace to a bare block id.
func Normalize(block string) string {
	id := block
	if i := strings.IndexByte(id, '['); i >= 0 {
		id = id[:i]
	}
	if strings.Contains(id, ":") {
		return block
	}
	return namespace + block
}

func (s *Schematic) fitsShort() bool {
	w, h, l := s.Size()
	return w <= math.MaxInt16 && h <= math.MaxInt16 && l <= math.MaxInt16
}

var schematicLog = zap.NewNop()

func SetLogger(l *zap.Logger) {
	schematicLog = l.Named("schematic")
}
