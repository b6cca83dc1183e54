package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	TypeSchematic = "schematic"
	TypeFunction  = "function"

	DefaultBlock = "minecraft:iron_block"
)

type Mode string

const (
	ModeDefault   Mode = "default"
	ModeStaircase Mode = "staircase"
)

// ParseMode falls back to ModeDefault for anything it doesn't know. ok is
// false when the value was present but unrecognized.
func ParseMode(s string) (m Mode, ok bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStaircase:
		return ModeStaircase, true
	case ModeDefault:
		return ModeDefault, true
	case "":
		return ModeDefault, true
	}
	return ModeDefault, false
}

type Generate struct {
	InputFile     string `yaml:"input_file"`
	OutputFile    string `yaml:"output_file"`
	Type          string `yaml:"type"`
	FormatVersion string `yaml:"format_version"`
}

type Coords struct {
	X, Y, Z int
}

// UnmarshalYAML accepts [x, y, z] with numbers or numeric strings.
func (c *Coords) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 3 {
		return errors.Errorf("line %d: base_coords must be a list of 3 values", node.Line)
	}

	var v [3]int
	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: base_coords value is not a scalar", item.Line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(item.Value))
		if err != nil {
			return errors.Wrapf(err, "line %d: base_coords", item.Line)
		}
		v[i] = n
	}
	c.X, c.Y, c.Z = v[0], v[1], v[2]

	return nil
}

type Blocks struct {
	Base  string `yaml:"base"`
	Cover string `yaml:"cover"`
}

type Group struct {
	ID         int    `yaml:"-"`
	BaseCoords Coords `yaml:"base_coords"`
	Layers     []int  `yaml:"layers"`
	Block      Blocks `yaml:"block"`
	Mode       Mode   `yaml:"-"`

	// RawMode is the generation_mode as written in the file.
	RawMode string `yaml:"generation_mode"`
}

// HasLayer reports whether notes of layer belong to the group.
func (g *Group) HasLayer(layer int) bool {
	for _, l := range g.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

type Config struct {
	Generate Generate
	// Groups in the order they appear in the file.
	Groups []Group
}
