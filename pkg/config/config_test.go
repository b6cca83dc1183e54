package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
generate:
  input_file: test.nbs
  output_file: out/test
  type: schematic
  format_version: "1.21.4"
groups:
  7:
    base_coords: ["0", "64", "-3"]
    layers: [0, 1, 2]
    block:
      base: minecraft:stone
      cover: minecraft:smooth_stone
    generation_mode: Staircase
  2:
    base_coords: [10, 64, 20]
    layers: [3]
    generation_mode: spiral
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Generate{
		InputFile:     "test.nbs",
		OutputFile:    "out/test",
		Type:          TypeSchematic,
		FormatVersion: "1.21.4",
	}, cfg.Generate)
	assert.False(t, cfg.Generate.IsFunction())

	// file order, not numeric order
	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, 7, cfg.Groups[0].ID)
	assert.Equal(t, 2, cfg.Groups[1].ID)

	g := cfg.Groups[0]
	assert.Equal(t, Coords{0, 64, -3}, g.BaseCoords)
	assert.Equal(t, []int{0, 1, 2}, g.Layers)
	assert.Equal(t, Blocks{Base: "minecraft:stone", Cover: "minecraft:smooth_stone"}, g.Block)
	assert.Equal(t, ModeStaircase, g.Mode)
	assert.True(t, g.HasLayer(2))
	assert.False(t, g.HasLayer(3))

	g = cfg.Groups[1]
	assert.Equal(t, Coords{10, 64, 20}, g.BaseCoords)
	assert.Equal(t, Blocks{Base: DefaultBlock, Cover: DefaultBlock}, g.Block)
	// unknown modes fall back to default
	assert.Equal(t, ModeDefault, g.Mode)
	assert.Equal(t, "spiral", g.RawMode)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad coords", "groups:\n  0:\n    base_coords: [1, 2]\n    layers: [0]\n"},
		{"non numeric coords", "groups:\n  0:\n    base_coords: [a, 2, 3]\n    layers: [0]\n"},
		{"bad group id", "groups:\n  first:\n    layers: [0]\n"},
		{"duplicate group id", "groups:\n  1:\n    layers: [0]\n  \"1\":\n    layers: [1]\n"},
		{"unknown key", "generate:\n  output: x\n"},
		{"groups not a mapping", "groups: [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Generate: Generate{Type: "mcfunction"},
		Groups:   []Group{{ID: 0, Layers: []int{0}}},
	}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Generate.IsFunction())

	cfg.Groups = append(cfg.Groups, Group{ID: 1})
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	cfg.Groups = nil
	assert.Error(t, cfg.Validate())

	cfg.Generate.Type = "litematic"
	cfg.Groups = []Group{{ID: 0, Layers: []int{0}}}
	assert.Error(t, cfg.Validate())
}

func TestOverlaps(t *testing.T) {
	cfg := &Config{Groups: []Group{
		{ID: 3, Layers: []int{0, 1, 1}},
		{ID: 1, Layers: []int{1, 2}},
		{ID: 2, Layers: []int{2, 5}},
	}}

	assert.Equal(t, map[int][]int{
		1: {1, 3},
		2: {1, 2},
	}, cfg.Overlaps())

	cfg.Groups = cfg.Groups[:1]
	assert.Empty(t, cfg.Overlaps())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  0:\n    base_coords: [0, 0, 0]\n    layers: [0]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TypeSchematic, cfg.Generate.Type)
	assert.Len(t, cfg.Groups, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("")
	assert.Equal(t, ModeDefault, m)
	assert.True(t, ok)

	m, ok = ParseMode(" STAIRCASE ")
	assert.Equal(t, ModeStaircase, m)
	assert.True(t, ok)

	m, ok = ParseMode("zigzag")
	assert.Equal(t, ModeDefault, m)
	assert.False(t, ok)
}
