package layout

import (
	"sort"

	"github.com/Garik-/nbs2save/pkg/song"
)

// Partition returns the notes on the given layers ordered by tick, keeping
// the input order of notes on the same tick, and the largest tick among them.
func Partition(notes []song.Note, layers []int) ([]song.Note, int) {
	set := make(map[int]struct{}, len(layers))
	for _, l := range layers {
		set[l] = struct{}{}
	}

	var out []song.Note
	for _, n := range notes {
		if _, ok := set[n.Layer]; ok {
			out = append(out, n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tick < out[j].Tick
	})

	return out, song.MaxTick(out)
}
