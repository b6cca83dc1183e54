package layout

import (
	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/song"
)

// Run is what a strategy sees of the whole conversion.
type Run struct {
	Generate config.Generate
	Groups   []config.Group
	Song     *song.Song
}

type platformStatus struct {
	left, right bool
}

// Pass is the state of one group while its ticks are scanned.
type Pass struct {
	Group *config.Group

	BaseX, BaseY, BaseZ int
	Base, Cover         string
	Mode                config.Mode

	// Notes of the group ordered by tick.
	Notes   []song.Note
	MaxTick int

	// Active holds the notes of the tick being scanned.
	Active []song.Note

	status map[int]*platformStatus
}

func newPass(g *config.Group, notes []song.Note) *Pass {
	p := &Pass{
		Group:  g,
		BaseX:  g.BaseCoords.X,
		BaseY:  g.BaseCoords.Y,
		BaseZ:  g.BaseCoords.Z,
		Base:   g.Block.Base,
		Cover:  g.Block.Cover,
		Mode:   g.Mode,
		status: make(map[int]*platformStatus),
	}
	if p.Mode == "" {
		p.Mode = config.ModeDefault
	}
	p.Notes, p.MaxTick = Partition(notes, g.Layers)
	return p
}

// X is the column of tick, every tick takes two blocks to fit the repeater.
func (p *Pass) X(tick int) int {
	return p.BaseX + 2*tick
}

// Built reports whether the platform of tick towards dir is already placed.
func (p *Pass) Built(tick, dir int) bool {
	st, ok := p.status[tick]
	if !ok {
		return false
	}
	if dir == Left {
		return st.left
	}
	return st.right
}

func (p *Pass) MarkBuilt(tick, dir int) {
	st, ok := p.status[tick]
	if !ok {
		st = &platformStatus{}
		p.status[tick] = st
	}
	if dir == Left {
		st.left = true
	} else {
		st.right = true
	}
}
