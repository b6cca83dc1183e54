package layout

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Garik-/nbs2save/pkg/song"
)

var (
	// ErrSpatialConflict is reported when two notes of a group land on the same block.
	ErrSpatialConflict = errors.New("spatial conflict")
	// ErrMissingConfigKey is reported by a strategy when a required setting is empty.
	ErrMissingConfigKey = errors.New("missing config key")
)

// ConflictError carries the two notes that share a tick and a Z position.
type ConflictError struct {
	Group int
	Tick  int
	Z     int
	Note  song.Note
	Other song.Note
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: group %d, tick %d, z %d is already taken by layer %d; conflicting note: layer %d, key %d, instrument %d",
		ErrSpatialConflict, e.Group, e.Tick, e.Z, e.Other.Layer, e.Note.Layer, e.Note.Key, e.Note.Instrument)
}

func (e *ConflictError) Unwrap() error {
	return ErrSpatialConflict
}

func missingKey(key string) error {
	return errors.Wrap(ErrMissingConfigKey, key)
}
