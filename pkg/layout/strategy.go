package layout

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/mapping"
	"github.com/Garik-/nbs2save/pkg/schematic"
	"github.com/Garik-/nbs2save/pkg/song"
)

const (
	Repeater = "minecraft:repeater[delay=1,facing=west]"
	Wire     = "minecraft:redstone_wire[north=side,south=side]"
	Barrier  = "minecraft:barrier"
)

// Strategy receives the geometry of a run. WritePlatform must be a no-op
// when the platform of that tick and direction is already built, and marks
// it built otherwise.
type Strategy interface {
	Initialize(run *Run) error
	WriteBackbone(p *Pass, tick int)
	WritePlatform(p *Pass, tick, dir int)
	WriteNote(p *Pass, n song.Note)
	Finalize(run *Run) error
}

// Region is a write-only block map that can be persisted.
type Region interface {
	SetBlock(pos schematic.Pos, block string)
	Save(dir, name, version string) error
}

// NewStrategy picks the strategy for the configured output type. Schematic
// output uses the staircase strategy as soon as one group asks for it.
func NewStrategy(gen config.Generate, groups []config.Group) (Strategy, error) {
	if gen.IsFunction() {
		return NewCommandStrategy(), nil
	}
	if gen.Type != config.TypeSchematic {
		return nil, errors.Errorf("unsupported output type %q", gen.Type)
	}

	for _, g := range groups {
		if g.Mode == config.ModeStaircase {
			return NewStaircaseStrategy(schematic.New()), nil
		}
	}
	return NewRegionStrategy(schematic.New()), nil
}

func noteBlock(n song.Note) string {
	return fmt.Sprintf("note_block[note=%s,instrument=%s]", mapping.Pitch(n.Key), mapping.Instrument(n.Instrument))
}

type nopStrategy struct{}

func (nopStrategy) Initialize(*Run) error { return nil }
func (nopStrategy) WriteBackbone(*Pass, int) {}
func (nopStrategy) WritePlatform(*Pass, int, int) {}
func (nopStrategy) WriteNote(*Pass, song.Note) {}
func (nopStrategy) Finalize(*Run) error { return nil }
