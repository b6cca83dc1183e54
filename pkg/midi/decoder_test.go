package midi

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Garik-/nbs2save/pkg/song"
)

func writeSMF(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		tr.Close(0)
		require.NoError(t, s.Add(tr))
	}

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecoder_Decode(t *testing.T) {
	var melody smf.Track
	melody.Add(0, gomidi.ProgramChange(0, 24))
	melody.Add(0, gomidi.ControlChange(0, panCC, 127))
	melody.Add(0, gomidi.NoteOn(0, 66, 100))
	melody.Add(480, gomidi.NoteOff(0, 66))
	melody.Add(0, gomidi.NoteOn(0, 67, 90))
	melody.Add(240, gomidi.NoteOff(0, 67))

	var drums smf.Track
	drums.Add(960, gomidi.NoteOn(drumChannel, 36, 120))
	drums.Add(120, gomidi.NoteOff(drumChannel, 36))

	decoder := NewDecoder(bytes.NewReader(writeSMF(t, melody, drums)))
	require.NoError(t, decoder.Decode())

	assert.Equal(t, MetricalTF, decoder.TimeFormat)
	assert.Equal(t, uint16(480), decoder.TicksPerQuarterNote)
	require.Len(t, decoder.Tracks, 2)

	var noteOns int
	for _, e := range decoder.Tracks[0].Events {
		if e.MsgType == NoteOn && e.Velocity > 0 {
			noteOns++
		}
	}
	assert.Equal(t, 2, noteOns)

	s, err := decoder.Song(SongOptions{Fold: true})
	require.NoError(t, err)

	assert.Equal(t, []song.Note{
		{Tick: 0, Layer: 0, Key: 45, Instrument: 5, Panning: 100},
		{Tick: 4, Layer: 0, Key: 46, Instrument: 5, Panning: 100},
		{Tick: 8, Layer: 1, Key: 39, Instrument: 2, Panning: 0},
	}, s.Notes)
	assert.Equal(t, 8, s.Length)
}

func TestDecoder_SongWithoutFold(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 30, 100))
	tr.Add(120, gomidi.NoteOff(0, 30))

	decoder := NewDecoder(bytes.NewReader(writeSMF(t, tr)))
	require.NoError(t, decoder.Decode())

	s, err := decoder.Song(SongOptions{TicksPerBeat: 8})
	require.NoError(t, err)
	require.Len(t, s.Notes, 1)

	// out of the note block range, left for the pitch lookup to default
	assert.Equal(t, 9, s.Notes[0].Key)
	assert.Equal(t, 0, s.Notes[0].Instrument)
}

func TestDecoder_NotMidi(t *testing.T) {
	err := NewDecoder(bytes.NewReader([]byte("RIFF\x00\x00\x00\x00"))).Decode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFmtNotSupported))
}

func TestDecoder_Truncated(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))

	data := writeSMF(t, tr)
	err := NewDecoder(bytes.NewReader(data[:len(data)-6])).Decode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestPanning(t *testing.T) {
	assert.Equal(t, -100, panning(0))
	assert.Equal(t, 0, panning(64))
	assert.Equal(t, 100, panning(127))
	assert.Equal(t, -50, panning(32))
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, 0, quantize(0, 480, 4))
	assert.Equal(t, 4, quantize(480, 480, 4))
	assert.Equal(t, 1, quantize(60, 480, 4)) // half a note block tick rounds up
	assert.Equal(t, 0, quantize(59, 480, 4))
}

func TestDecodeVarint(t *testing.T) {
	x, n := decodeVarint([]byte{0x7F})
	assert.Equal(t, uint32(0x7F), x)
	assert.Equal(t, 1, n)

	x, n = decodeVarint([]byte{0x81, 0x00})
	assert.Equal(t, uint32(0x80), x)
	assert.Equal(t, 2, n)

	x, _ = decodeVarint([]byte{0xFF, 0xFF, 0x7F})
	assert.Equal(t, uint32(0x1FFFFF), x)
}
