package mapping

import (
	"strconv"
	"strings"
)

const (
	DefaultInstrument   = "harp"
	DefaultSupportBlock = "minecraft:stone"
	DefaultPitch        = "0"

	// lowest and highest keys a note block can play
	MinKey = 33
	MaxKey = 57
)

// instrument -> note block instrument name
var instruments = map[int]string{
	0: "harp", 1: "bass", 2: "basedrum", 3: "snare", 4: "hat",
	5: "guitar", 6: "flute", 7: "bell", 8: "chime", 9: "xylophone",
	10: "iron_xylophone", 11: "cow_bell", 12: "didgeridoo", 13: "bit",
	14: "banjo", 15: "pling",
}

// instrument -> block placed under the note block, it selects the timbre
var supportBlocks = map[int]string{
	0: "minecraft:dirt", 1: "minecraft:oak_planks", 2: "minecraft:stone", 3: "minecraft:sand",
	4: "minecraft:glass", 5: "minecraft:white_wool", 6: "minecraft:clay", 7: "minecraft:gold_block",
	8: "minecraft:packed_ice", 9: "minecraft:bone_block", 10: "minecraft:iron_block", 11: "minecraft:soul_sand",
	12: "minecraft:pumpkin", 13: "minecraft:emerald_block", 14: "minecraft:hay_block", 15: "minecraft:glowstone",
}

var pitches = func() map[int]string {
	m := make(map[int]string, MaxKey-MinKey+1)
	for k := MinKey; k <= MaxKey; k++ {
		m[k] = strconv.Itoa(k - MinKey)
	}
	return m
}()

func Instrument(instrument int) string {
	if name, ok := instruments[instrument]; ok {
		return name
	}
	return DefaultInstrument
}

func SupportBlock(instrument int) string {
	if block, ok := supportBlocks[instrument]; ok {
		return block
	}
	return DefaultSupportBlock
}

// Pitch returns the note block pitch index for key, "0" when the key is
// outside the playable range.
func Pitch(key int) string {
	if p, ok := pitches[key]; ok {
		return p
	}
	return DefaultPitch
}

// IsSandLike reports whether block falls under gravity and needs something
// solid underneath.
func IsSandLike(block string) bool {
	return strings.HasSuffix(block, "sand")
}
