package layout

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Garik-/nbs2save/pkg/mapping"
	"github.com/Garik-/nbs2save/pkg/schematic"
	"github.com/Garik-/nbs2save/pkg/song"
)

// RegionStrategy places blocks into a Region with every note on the
// backbone level.
type RegionStrategy struct {
	region Region
}

func NewRegionStrategy(region Region) *RegionStrategy {
	return &RegionStrategy{region: region}
}

func (s *RegionStrategy) Region() Region {
	return s.region
}

func (s *RegionStrategy) Initialize(run *Run) error {
	if run.Generate.OutputFile == "" {
		return missingKey("output_file")
	}
	if run.Generate.FormatVersion == "" {
		return missingKey("format_version")
	}
	if _, err := schematic.DataVersion(run.Generate.FormatVersion); err != nil {
		return err
	}
	return nil
}

func (s *RegionStrategy) WriteBackbone(p *Pass, tick int) {
	x := p.X(tick)
	s.set(x, p.BaseY, p.BaseZ, p.Cover)
	s.set(x, p.BaseY-1, p.BaseZ, p.Base)
	s.set(x-1, p.BaseY, p.BaseZ, Repeater)
	s.set(x-1, p.BaseY-1, p.BaseZ, p.Base)
}

func (s *RegionStrategy) WritePlatform(p *Pass, tick, dir int) {
	if p.Built(tick, dir) {
		return
	}
	reach := MaxOffset(p.Active, tick, dir)
	if reach == 0 {
		return
	}

	s.flatPlatform(p, tick, dir, reach)
	p.MarkBuilt(tick, dir)
}

// flatPlatform lays the platform one below the backbone from the trunk to
// the block before the furthest note, wired on top when it is longer than one.
func (s *RegionStrategy) flatPlatform(p *Pass, tick, dir, reach int) {
	x := p.X(tick)
	end := p.BaseZ + reach - dir

	for z := p.BaseZ; z != end+dir; z += dir {
		s.set(x, p.BaseY-1, z, p.Base)
	}
	s.set(x, p.BaseY, p.BaseZ, p.Cover)

	if abs(reach) > 1 {
		for z := p.BaseZ + dir; z != end+dir; z += dir {
			s.set(x, p.BaseY, z, Wire)
		}
	}
}

func (s *RegionStrategy) WriteNote(p *Pass, n song.Note) {
	s.placeNote(p.X(n.Tick), p.BaseY, p.BaseZ+LateralOffset(n), n)
}

func (s *RegionStrategy) placeNote(x, y, z int, n song.Note) {
	support := mapping.SupportBlock(n.Instrument)

	s.set(x, y, z, "minecraft:"+noteBlock(n))
	s.set(x, y-1, z, support)
	if mapping.IsSandLike(support) {
		s.set(x, y-2, z, Barrier)
	}
}

func (s *RegionStrategy) Finalize(run *Run) error {
	out := run.Generate.OutputFile
	err := s.region.Save(filepath.Dir(out), filepath.Base(out), run.Generate.FormatVersion)
	return errors.Wrap(err, "save region")
}

func (s *RegionStrategy) set(x, y, z int, block string) {
	s.region.SetBlock(schematic.Pos{X: x, Y: y, Z: z}, block)
}
