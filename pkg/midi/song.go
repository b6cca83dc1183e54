package midi

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/mapping"
	"github.com/Garik-/nbs2save/pkg/song"
)

const (
	DefaultTicksPerBeat = 4

	drumChannel = 9
	panCC       = 10
	panCenter   = 64

	// note block key 0 is A0, midi key 21
	keyOffset = 21
)

// general midi program family (program / 8) -> note block instrument
var programInstruments = [16]int{
	0,  // piano: harp
	7,  // chromatic percussion: bell
	13, // organ: bit
	5,  // guitar
	1,  // bass
	6,  // strings: flute
	6,  // ensemble: flute
	12, // brass: didgeridoo
	6,  // reed: flute
	6,  // pipe: flute
	13, // synth lead: bit
	15, // synth pad: pling
	15, // synth effects: pling
	14, // ethnic: banjo
	9,  // percussive: xylophone
	0,  // sound effects: harp
}

// general midi percussion key -> note block instrument
var drumInstruments = map[uint8]int{
	35: 2, 36: 2, // bass drum
	37: 3, 38: 3, 39: 3, 40: 3, // snare, clap
	42: 4, 44: 4, 46: 4, // hi-hat
	49: 4, 51: 4, 57: 4, 59: 4, // cymbals
	56: 11, // cowbell
}

var ErrNoTiming = errors.New("smpte time format has no ticks per quarter note")

type SongOptions struct {
	// note block ticks per quarter note
	TicksPerBeat int
	// move keys outside 33..57 by octaves into the playable range
	Fold bool
}

type channelState struct {
	program uint8
	pan     int
}

type timedEvent struct {
	track int
	*Event
}

// Song converts the decoded tracks into note block notes. Every track becomes
// a layer with the same index.
func (d *Decoder) Song(opts SongOptions) (*song.Song, error) {
	if d.TimeFormat != MetricalTF || d.TicksPerQuarterNote == 0 {
		return nil, ErrNoTiming
	}
	if opts.TicksPerBeat <= 0 {
		opts.TicksPerBeat = DefaultTicksPerBeat
	}

	// program and pan changes in one track apply to notes in every track
	var events []timedEvent
	for i, track := range d.Tracks {
		for _, e := range track.Events {
			events = append(events, timedEvent{track: i, Event: e})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].AbsTicks < events[j].AbsTicks
	})

	var channels [16]channelState
	s := &song.Song{}
	folded := 0

	for _, e := range events {
		ch := &channels[e.Channel]

		switch e.MsgType {
		case ProgramChange:
			ch.program = e.Note

		case ControlChange:
			if e.Note == panCC {
				ch.pan = panning(e.Velocity)
			}

		case NoteOn:
			if e.Velocity == 0 {
				continue
			}

			n := song.Note{
				Tick:    quantize(e.AbsTicks, int64(d.TicksPerQuarterNote), int64(opts.TicksPerBeat)),
				Layer:   e.track,
				Key:     int(e.Note) - keyOffset,
				Panning: ch.pan,
			}

			if e.Channel == drumChannel {
				n.Instrument = drumInstrument(e.Note)
			} else {
				n.Instrument = programInstruments[ch.program/8]
			}

			if opts.Fold && (n.Key < mapping.MinKey || n.Key > mapping.MaxKey) {
				n.Key = fold(n.Key)
				folded++
			}

			s.Notes = append(s.Notes, n)
		}
	}

	s.Length = song.MaxTick(s.Notes)

	decoderLog.Debug("song",
		zap.Int("notes", len(s.Notes)),
		zap.Int("length", s.Length),
		zap.Int("folded", folded))

	return s, nil
}

func drumInstrument(key uint8) int {
	if i, ok := drumInstruments[key]; ok {
		return i
	}
	return 4
}

// panning maps a controller value 0..127 to -100..100 with 64 as center.
func panning(v uint8) int {
	if v >= panCenter {
		return (int(v) - panCenter) * 100 / (127 - panCenter)
	}
	return (int(v) - panCenter) * 100 / panCenter
}

// quantize converts midi ticks to note block ticks rounding to the nearest.
func quantize(abs, ticksPerQuarter, ticksPerBeat int64) int {
	return int((abs*ticksPerBeat + ticksPerQuarter/2) / ticksPerQuarter)
}

func fold(key int) int {
	for key < mapping.MinKey {
		key += 12
	}
	for key > mapping.MaxKey {
		key -= 12
	}
	return key
}
