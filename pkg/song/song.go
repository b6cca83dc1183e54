package song

// Note is a single note block event. Key uses the note block studio
// numbering where 33..57 is the playable two-octave range.
type Note struct {
	Tick       int
	Layer      int
	Key        int
	Instrument int
	Panning    int
}

type Song struct {
	Notes []Note

	// Length is the last tick of the whole piece.
	Length int
}

// MaxTick returns the largest tick among notes, or 0.
func MaxTick(notes []Note) int {
	last := 0
	for _, n := range notes {
		if n.Tick > last {
			last = n.Tick
		}
	}
	return last
}
