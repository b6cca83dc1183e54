package layout

import (
	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/song"
)

// offsets from this distance on step down instead of staying flat
const stairFrom = 3

// StaircaseStrategy places far panned notes of staircase groups lower, one
// block per block of distance from the trunk. Other groups get the flat
// layout of RegionStrategy.
type StaircaseStrategy struct {
	*RegionStrategy
}

func NewStaircaseStrategy(region Region) *StaircaseStrategy {
	return &StaircaseStrategy{RegionStrategy: NewRegionStrategy(region)}
}

func (s *StaircaseStrategy) WritePlatform(p *Pass, tick, dir int) {
	if p.Mode != config.ModeStaircase {
		s.RegionStrategy.WritePlatform(p, tick, dir)
		return
	}

	if p.Built(tick, dir) {
		return
	}
	reach := MaxOffset(p.Active, tick, dir)
	if reach == 0 {
		return
	}

	if abs(reach) < stairFrom {
		s.flatPlatform(p, tick, dir, reach)
		p.MarkBuilt(tick, dir)
		return
	}

	x := p.X(tick)
	end := p.BaseZ + reach - dir

	// the trunk stays on the backbone level
	for z := p.BaseZ; z != end+dir; z += dir {
		s.set(x, p.BaseY-abs(z-p.BaseZ), z, p.Base)
	}

	// TODO: the trunk base above is overwritten by the cover; move it to
	// BaseY-1 like the flat layout once checked in game.
	s.set(x, p.BaseY, p.BaseZ, p.Cover)

	for z := p.BaseZ + dir; z != end+dir; z += dir {
		s.set(x, p.BaseY+1-abs(z-p.BaseZ), z, Wire)
	}

	p.MarkBuilt(tick, dir)
}

func (s *StaircaseStrategy) WriteNote(p *Pass, n song.Note) {
	off := LateralOffset(n)
	y := p.BaseY
	if p.Mode == config.ModeStaircase && abs(off) >= stairFrom {
		y = p.BaseY - (abs(off) - 1)
	}
	s.placeNote(p.X(n.Tick), y, p.BaseZ+off, n)
}
