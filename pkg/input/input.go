package input

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/midi"
	"github.com/Garik-/nbs2save/pkg/nbs"
	"github.com/Garik-/nbs2save/pkg/song"
)

var inputLog = zap.NewNop()

func SetLogger(l *zap.Logger) {
	inputLog = l.Named("input")
}

// IsMIDI reports whether path is decoded as a standard midi file.
func IsMIDI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return true
	}
	return false
}

// Decode reads a note block studio song, or a midi file when the extension
// says so.
func Decode(path string, opts midi.SongOptions) (*song.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var s *song.Song
	if IsMIDI(path) {
		decoder := midi.NewDecoder(f)
		if err = decoder.Decode(); err != nil {
			return nil, errors.Wrapf(err, "decode %s", path)
		}
		if s, err = decoder.Song(opts); err != nil {
			return nil, errors.Wrapf(err, "convert %s", path)
		}
	} else {
		decoder := nbs.NewDecoder(f)
		if err = decoder.Decode(); err != nil {
			return nil, errors.Wrapf(err, "decode %s", path)
		}
		s = decoder.Song()
	}

	inputLog.Debug("decoded", zap.String("path", path), zap.Int("notes", len(s.Notes)), zap.Int("length", s.Length))
	return s, nil
}
