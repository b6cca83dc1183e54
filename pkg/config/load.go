package config

import (
	"bytes"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type file struct {
	Generate Generate  `yaml:"generate"`
	Groups   yaml.Node `yaml:"groups"`
}

// applyDefaults fills the settings the file leaves out.
func (g *Generate) applyDefaults() {
	if strings.TrimSpace(g.Type) == "" {
		g.Type = TypeSchematic
	}
	g.Type = strings.ToLower(strings.TrimSpace(g.Type))
}

func (b *Blocks) applyDefaults() {
	if strings.TrimSpace(b.Base) == "" {
		b.Base = DefaultBlock
	}
	if strings.TrimSpace(b.Cover) == "" {
		b.Cover = DefaultBlock
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	var f file

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}

	cfg := &Config{Generate: f.Generate}
	cfg.Generate.applyDefaults()

	groups, err := parseGroups(&f.Groups)
	if err != nil {
		return nil, err
	}
	cfg.Groups = groups

	return cfg, nil
}

// parseGroups walks the mapping by hand so the file order is kept.
func parseGroups(node *yaml.Node) ([]Group, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalid, "line %d: groups must be a mapping of id to group", node.Line)
	}

	seen := make(map[int]bool)
	groups := make([]Group, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		id, err := strconv.Atoi(strings.TrimSpace(key.Value))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "line %d: group id %q is not an integer", key.Line, key.Value)
		}
		if seen[id] {
			return nil, errors.Wrapf(ErrInvalid, "line %d: group %d defined twice", key.Line, id)
		}
		seen[id] = true

		g := Group{ID: id}
		if err = value.Decode(&g); err != nil {
			return nil, errors.Wrapf(err, "group %d", id)
		}
		g.Block.applyDefaults()
		g.Mode, _ = ParseMode(g.RawMode)

		groups = append(groups, g)
	}

	return groups, nil
}

// Validate checks what the layout needs before anything is generated.
func (c *Config) Validate() error {
	switch c.Generate.Type {
	case TypeSchematic, TypeFunction, "mcfunction":
	default:
		return errors.Wrapf(ErrInvalid, "unsupported type %q", c.Generate.Type)
	}

	if len(c.Groups) == 0 {
		return errors.Wrap(ErrInvalid, "no groups configured")
	}

	for _, g := range c.Groups {
		if len(g.Layers) == 0 {
			return errors.Wrapf(ErrInvalid, "group %d has no layers", g.ID)
		}
	}

	return nil
}

// Overlaps returns layers claimed by more than one group with the ids of
// those groups.
func (c *Config) Overlaps() map[int][]int {
	owners := make(map[int][]int)
	for _, g := range c.Groups {
		seen := make(map[int]bool, len(g.Layers))
		for _, l := range g.Layers {
			if seen[l] {
				continue
			}
			seen[l] = true
			owners[l] = append(owners[l], g.ID)
		}
	}

	out := make(map[int][]int)
	for l, ids := range owners {
		if len(ids) > 1 {
			sort.Ints(ids)
			out[l] = ids
		}
	}
	return out
}

// IsFunction reports whether the run writes a command file.
func (g Generate) IsFunction() bool {
	return g.Type == TypeFunction || g.Type == "mcfunction"
}
