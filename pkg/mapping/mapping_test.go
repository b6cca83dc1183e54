package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitch(t *testing.T) {
	assert.Equal(t, "0", Pitch(33))
	assert.Equal(t, "6", Pitch(39))
	assert.Equal(t, "24", Pitch(57))

	// outside of the note block range
	assert.Equal(t, DefaultPitch, Pitch(32))
	assert.Equal(t, DefaultPitch, Pitch(58))
}

func TestInstrumentDefaults(t *testing.T) {
	assert.Equal(t, "harp", Instrument(0))
	assert.Equal(t, "pling", Instrument(15))
	assert.Equal(t, DefaultInstrument, Instrument(16))
	assert.Equal(t, DefaultInstrument, Instrument(-1))

	assert.Equal(t, "minecraft:dirt", SupportBlock(0))
	assert.Equal(t, "minecraft:soul_sand", SupportBlock(11))
	assert.Equal(t, DefaultSupportBlock, SupportBlock(99))
}

func TestIsSandLike(t *testing.T) {
	assert.True(t, IsSandLike("minecraft:sand"))
	assert.True(t, IsSandLike("minecraft:soul_sand"))
	assert.False(t, IsSandLike("minecraft:sandstone"))
	assert.False(t, IsSandLike("minecraft:dirt"))
}
