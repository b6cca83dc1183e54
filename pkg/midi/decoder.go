package midi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type nextChunkType int

const (
	eventChunk nextChunkType = iota + 1
	trackChunk
)

type timeFormat int

const (
	MetricalTF timeFormat = iota + 1
	TimeCodeTF
)

const (
	NoteOff       uint8 = 0x8
	NoteOn        uint8 = 0x9
	Aftertouch    uint8 = 0xA
	ControlChange uint8 = 0xB
	ProgramChange uint8 = 0xC
)

const (
	metaEndOfTrack = 0x2F
	metaStatus     = 0xFF
	sysExStatus    = 0xF0
	sysExEscape    = 0xF7
)

var (
	headerChunkID = [4]byte{0x4D, 0x54, 0x68, 0x64}
	trackChunkID  = [4]byte{0x4D, 0x54, 0x72, 0x6B}

	// ErrFmtNotSupported is a generic error reporting an unknown format.
	ErrFmtNotSupported = errors.New("format not supported")
	// ErrUnexpectedData is a generic error reporting that the parser encountered unexpected data.
	ErrUnexpectedData = errors.New("unexpected data content")
)

// Event is a channel voice message. For note messages Note and Velocity are
// set, for control change Note holds the controller and Velocity its value,
// for program change Note holds the program.
type Event struct {
	TimeDelta uint32
	AbsTicks  int64
	MsgType   uint8
	Channel   uint8
	Note      uint8
	Velocity  uint8
}

type Track struct {
	Events []*Event
}

type Decoder struct {
	r            io.ReadSeeker
	lastEvent    *Event
	currentTrack *Track
	offset       int64
	trackEnd     int64
	absTicks     int64

	TicksPerQuarterNote uint16
	TimeFormat          timeFormat
	Tracks              []*Track
}

func (d *Decoder) Decode() error {
	if _, err := d.r.Seek(0, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}

	var code [4]byte
	d.offset = 0
	d.Tracks = nil

	if err := binary.Read(d.r, binary.BigEndian, &code); err != nil {
		return errors.WithStack(err)
	}

	if code != headerChunkID {
		return errors.Wrapf(ErrFmtNotSupported, "%v", code)
	}

	d.offset += 4 // [4]byte code

	var headerSize uint32
	if err := binary.Read(d.r, binary.BigEndian, &headerSize); err != nil {
		return errors.WithStack(err)
	}

	if headerSize != 6 {
		return errors.Wrapf(ErrFmtNotSupported, "expected header size to be 6, was %d", headerSize)
	}

	d.offset += 4 + 2 + 2 // uint32 headerSize + uint16 Format + uint16 NumTracks

	if _, err := d.r.Seek(d.offset, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}

	var division uint16
	if err := binary.Read(d.r, binary.BigEndian, &division); err != nil {
		return errors.WithStack(err)
	}
	d.offset += 2

	if (division & 0x8000) == 0 {
		d.TicksPerQuarterNote = division & 0x7FFF
		d.TimeFormat = MetricalTF
	} else {
		d.TimeFormat = TimeCodeTF
	}

	nextChunk, err := d.parseTrack()
	if err != nil {
		return err
	}

	for err != io.EOF {
		switch nextChunk {
		case eventChunk:
			nextChunk, err = d.parseEvent()
		case trackChunk:
			nextChunk, err = d.parseTrack()
		}

		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "offset %d", d.offset)
		}
	}

	decoderLog.Debug("decoded",
		zap.Int("tracks", len(d.Tracks)),
		zap.Uint16("ticksPerQuarterNote", d.TicksPerQuarterNote))

	_, err = d.r.Seek(0, io.SeekStart)
	return errors.WithStack(err)
}

func (d *Decoder) parseTrack() (nextChunkType, error) {
	id, size, err := d.IDnSize()
	if err != nil {
		return trackChunk, err
	}
	if id != trackChunkID {
		return trackChunk, errors.Wrapf(ErrUnexpectedData, "expected track chunk ID %v, got %v", trackChunkID, id)
	}

	d.currentTrack = new(Track)
	d.Tracks = append(d.Tracks, d.currentTrack)
	d.trackEnd = d.offset + int64(size)
	d.absTicks = 0
	d.lastEvent = nil

	if size == 0 {
		return trackChunk, nil
	}

	return eventChunk, nil
}

func (d *Decoder) parseEvent() (nextChunkType, error) {
	nextChunk, err := d.readEvent()
	if err != nil {
		return nextChunk, err
	}

	if d.offset > d.trackEnd {
		return trackChunk, errors.Wrapf(ErrUnexpectedData, "event overruns track end %d", d.trackEnd)
	}

	if nextChunk == trackChunk || d.offset == d.trackEnd {
		// skip whatever follows the end of track meta event
		if d.offset < d.trackEnd {
			if _, err := d.r.Seek(d.trackEnd, io.SeekStart); err != nil {
				return trackChunk, errors.WithStack(err)
			}
			d.offset = d.trackEnd
		}
		return trackChunk, nil
	}

	return eventChunk, nil
}

func (d *Decoder) readEvent() (nextChunkType, error) {
	timeDelta, err := d.varLen()
	if err != nil {
		return eventChunk, unexpectedEOF(err)
	}
	d.absTicks += int64(timeDelta)

	// status byte give us the msg type and channel.
	statusByte, err := d.readByte()
	if err != nil {
		return eventChunk, unexpectedEOF(err)
	}

	e := &Event{TimeDelta: timeDelta, AbsTicks: d.absTicks}
	e.MsgType = (statusByte & 0xF0) >> 4
	e.Channel = statusByte & 0x0F

	// running status
	if statusByte&0x80 == 0 {
		if d.lastEvent == nil || !isVoiceMsgType(d.lastEvent.MsgType) {
			return eventChunk, errors.Wrapf(ErrUnexpectedData, "running status without a previous voice message")
		}
		e.MsgType = d.lastEvent.MsgType
		e.Channel = d.lastEvent.Channel

		d.offset -= 1
		if _, err := d.r.Seek(-1, io.SeekCurrent); err != nil {
			return eventChunk, errors.WithStack(err)
		}
	}

	// Extract values based on message type
	switch e.MsgType {

	case 0xD:
		d.lastEvent = e
		return eventChunk, d.skip(1)

	case 0xE:
		d.lastEvent = e
		return eventChunk, d.skip(2)

	case ProgramChange:
		if e.Note, err = d.uint7(); err != nil {
			return eventChunk, unexpectedEOF(err)
		}

	case NoteOff, NoteOn, Aftertouch, ControlChange:
		if e.Note, err = d.uint7(); err != nil {
			return eventChunk, unexpectedEOF(err)
		}
		if e.Velocity, err = d.uint7(); err != nil {
			return eventChunk, unexpectedEOF(err)
		}

	case 0xF:
		switch statusByte {
		case metaStatus:
			return d.parseMetaMsg()
		case sysExStatus, sysExEscape:
			return eventChunk, d.varLenTxt()
		default:
			return eventChunk, errors.Wrapf(ErrUnexpectedData, "system message %#x in track", statusByte)
		}
	}

	d.lastEvent = e
	d.currentTrack.Events = append(d.currentTrack.Events, e)

	return eventChunk, nil
}

func (d *Decoder) parseMetaMsg() (nextChunkType, error) {
	metaType, err := d.readByte()
	if err != nil {
		return eventChunk, unexpectedEOF(err)
	}

	if err = d.varLenTxt(); err != nil {
		return eventChunk, err
	}

	if metaType == metaEndOfTrack {
		return trackChunk, nil
	}
	return eventChunk, nil
}

func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{r: r, offset: 0}
}
