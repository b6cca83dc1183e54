package layout

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/song"
)

type platformCall struct {
	tick, dir int
}

// recorder keeps the order of strategy calls.
type recorder struct {
	backbones []int
	platforms []platformCall
	notes     []song.Note
	finalized bool
}

func (r *recorder) Initialize(*Run) error { return nil }

func (r *recorder) WriteBackbone(_ *Pass, tick int) {
	r.backbones = append(r.backbones, tick)
}

func (r *recorder) WritePlatform(p *Pass, tick, dir int) {
	if p.Built(tick, dir) {
		return
	}
	r.platforms = append(r.platforms, platformCall{tick, dir})
	p.MarkBuilt(tick, dir)
}

func (r *recorder) WriteNote(_ *Pass, n song.Note) {
	r.notes = append(r.notes, n)
}

func (r *recorder) Finalize(*Run) error {
	r.finalized = true
	return nil
}

func testGroup(id int, layers ...int) config.Group {
	return config.Group{
		ID:     id,
		Layers: layers,
		Block:  config.Blocks{Base: "minecraft:stone", Cover: "minecraft:smooth_stone"},
		Mode:   config.ModeDefault,
	}
}

func TestEngine_Backbone(t *testing.T) {
	s := &song.Song{
		Notes:  []song.Note{{Tick: 0, Key: 40}, {Tick: 3, Key: 41}},
		Length: 4,
	}
	r := &recorder{}
	var progress []int

	err := NewEngine(r, WithProgress(func(p int) {
		progress = append(progress, p)
	})).Run(context.Background(), &Run{Song: s, Groups: []config.Group{testGroup(0, 0)}})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, r.backbones)
	assert.Equal(t, []int{0, 25, 50, 75}, progress)
	assert.Equal(t, s.Notes, r.notes)
	assert.Empty(t, r.platforms)
	assert.True(t, r.finalized)
}

func TestEngine_PlatformOrder(t *testing.T) {
	s := &song.Song{
		Notes: []song.Note{
			{Tick: 0, Layer: 0, Panning: 40},
			{Tick: 0, Layer: 1, Panning: -30},
			{Tick: 0, Layer: 2, Panning: 70},
			{Tick: 2, Layer: 0, Panning: 20},
		},
		Length: 2,
	}
	r := &recorder{}

	err := NewEngine(r).Run(context.Background(), &Run{Song: s, Groups: []config.Group{testGroup(0, 0, 1, 2)}})
	require.NoError(t, err)

	assert.Equal(t, []platformCall{{0, Left}, {0, Right}, {2, Right}}, r.platforms)
	assert.Equal(t, s.Notes, r.notes)
}

func TestEngine_GroupOrder(t *testing.T) {
	s := &song.Song{
		Notes: []song.Note{
			{Tick: 1, Layer: 0, Key: 40},
			{Tick: 0, Layer: 1, Key: 41},
		},
	}
	r := &recorder{}

	err := NewEngine(r).Run(context.Background(), &Run{
		Song:   s,
		Groups: []config.Group{testGroup(5, 1), testGroup(2, 0)},
	})
	require.NoError(t, err)

	// group 5 has a single tick, group 2 two
	assert.Equal(t, []int{0, 0, 1}, r.backbones)
	assert.Equal(t, []song.Note{s.Notes[1], s.Notes[0]}, r.notes)
}

func TestEngine_Conflict(t *testing.T) {
	s := &song.Song{
		Notes: []song.Note{
			{Tick: 0, Layer: 0, Key: 40},
			{Tick: 1, Layer: 0, Key: 41, Panning: 52},
			{Tick: 1, Layer: 1, Key: 42, Panning: 48},
			{Tick: 2, Layer: 0, Key: 43},
		},
		Length: 2,
	}
	r := &recorder{}

	err := NewEngine(r).Run(context.Background(), &Run{Song: s, Groups: []config.Group{testGroup(3, 0, 1)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpatialConflict))

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 3, conflict.Group)
	assert.Equal(t, 1, conflict.Tick)
	assert.Equal(t, 5, conflict.Z)
	assert.Equal(t, s.Notes[1], conflict.Other)
	assert.Equal(t, s.Notes[2], conflict.Note)

	// nothing after the conflicting tick
	assert.Equal(t, []int{0, 1}, r.backbones)
	assert.Equal(t, []song.Note{s.Notes[0]}, r.notes)
	assert.Empty(t, r.platforms)
	assert.False(t, r.finalized)
}

func TestEngine_SameOffsetOtherTick(t *testing.T) {
	s := &song.Song{
		Notes: []song.Note{
			{Tick: 0, Layer: 0, Panning: 50},
			{Tick: 1, Layer: 1, Panning: 50},
		},
	}

	require.NoError(t, Check(context.Background(), s, []config.Group{testGroup(0, 0, 1)}))
}

func TestEngine_EmptyGroup(t *testing.T) {
	s := &song.Song{
		Notes:  []song.Note{{Tick: 4, Layer: 0}},
		Length: 4,
	}
	r := &recorder{}

	err := NewEngine(r).Run(context.Background(), &Run{Song: s, Groups: []config.Group{testGroup(1, 9)}})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, r.backbones)
	assert.Empty(t, r.notes)
	assert.Empty(t, r.platforms)
	assert.True(t, r.finalized)
}

func TestEngine_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recorder{}

	err := NewEngine(r).Run(ctx, &Run{Song: &song.Song{}, Groups: []config.Group{testGroup(0, 0)}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, r.backbones)
	assert.False(t, r.finalized)
}

func TestCheck(t *testing.T) {
	s := &song.Song{
		Notes: []song.Note{
			{Tick: 0, Layer: 0, Panning: -10},
			{Tick: 0, Layer: 1, Panning: -14},
		},
	}

	// the layers are in different groups, each has its own trunk
	require.NoError(t, Check(context.Background(), s, []config.Group{testGroup(0, 0), testGroup(1, 1)}))

	err := Check(context.Background(), s, []config.Group{testGroup(0, 0, 1)})
	assert.True(t, errors.Is(err, ErrSpatialConflict))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(5, 0))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 100, percent(3, 3))
	assert.Equal(t, 100, percent(7, 3))
}
