package layout

import "github.com/Garik-/nbs2save/pkg/song"

const (
	Left  = -1
	Right = 1
)

// LateralOffset maps panning -100..100 to a Z offset of -10..10, rounding
// halves away from zero: 55 is 6, -55 is -6, 4 is 0.
func LateralOffset(n song.Note) int {
	if n.Panning < 0 {
		return -((-n.Panning + 5) / 10)
	}
	return (n.Panning + 5) / 10
}

// MaxOffset returns the furthest offset towards dir among notes at tick,
// signed like dir, or 0 when no note leans that way.
func MaxOffset(notes []song.Note, tick, dir int) int {
	reach := 0
	for _, n := range notes {
		if n.Tick != tick {
			continue
		}
		off := LateralOffset(n)
		if off*dir > 0 && abs(off) > reach {
			reach = abs(off)
		}
	}
	return reach * dir
}

func sign(v int) int {
	switch {
	case v > 0:
		return Right
	case v < 0:
		return Left
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
