package layout

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/song"
)

type ProgressFunc func(percent int)

type Option func(*Engine)

// WithProgress reports the scanned tick of the current group as a
// percentage of the song length.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// Engine lays out every group of a run through a Strategy. Groups are
// processed one after another in configuration order.
type Engine struct {
	strategy Strategy
	progress ProgressFunc
}

func NewEngine(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategy: strategy,
		progress: func(int) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run initializes the strategy, lays out every group and finalizes the
// strategy. A spatial conflict aborts the run before Finalize; whatever the
// strategy wrote until then is left as is.
func (e *Engine) Run(ctx context.Context, run *Run) error {
	log := engineLog.Named("Run")

	if run.Song == nil {
		run.Song = &song.Song{}
	}

	if err := e.strategy.Initialize(run); err != nil {
		return errors.Wrap(err, "initialize")
	}

	for i := range run.Groups {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		p := e.setup(&run.Groups[i], run.Song.Notes)
		if err := e.process(p, run.Song.Length); err != nil {
			return err
		}
	}

	if err := e.strategy.Finalize(run); err != nil {
		return errors.Wrap(err, "finalize")
	}

	log.Debug("done", zap.Int("groups", len(run.Groups)), zap.Int("notes", len(run.Song.Notes)))
	return nil
}

func (e *Engine) setup(g *config.Group, notes []song.Note) *Pass {
	log := engineLog.Named("group")

	if _, ok := config.ParseMode(g.RawMode); !ok {
		log.Warn("unknown generation mode, using default", zap.Int("id", g.ID), zap.String("mode", g.RawMode))
	}

	p := newPass(g, notes)

	log.Info("processing",
		zap.Int("id", g.ID),
		zap.Ints("layers", g.Layers),
		zap.Ints("coords", []int{p.BaseX, p.BaseY, p.BaseZ}),
		zap.String("base", p.Base),
		zap.String("cover", p.Cover),
		zap.String("mode", string(p.Mode)))

	if len(p.Notes) == 0 {
		log.Warn("no notes found for group", zap.Int("id", g.ID))
	} else {
		log.Info("notes", zap.Int("id", g.ID), zap.Int("count", len(p.Notes)), zap.Int("maxTick", p.MaxTick))
	}

	return p
}

func (e *Engine) process(p *Pass, length int) error {
	cursor := 0

	for tick := 0; tick <= p.MaxTick; tick++ {
		e.progress(percent(tick, length))

		e.strategy.WriteBackbone(p, tick)

		for cursor < len(p.Notes) && p.Notes[cursor].Tick < tick {
			cursor++
		}
		start := cursor
		for cursor < len(p.Notes) && p.Notes[cursor].Tick == tick {
			cursor++
		}
		p.Active = p.Notes[start:cursor]

		if err := detectConflict(p, tick); err != nil {
			return err
		}

		// left is always built before right
		left, right := directions(p.Active)
		if left {
			e.strategy.WritePlatform(p, tick, Left)
		}
		if right {
			e.strategy.WritePlatform(p, tick, Right)
		}

		for _, n := range p.Active {
			e.strategy.WriteNote(p, n)
		}
	}

	p.Active = nil
	return nil
}

func detectConflict(p *Pass, tick int) error {
	if len(p.Active) < 2 {
		return nil
	}

	occupied := make(map[int]song.Note, len(p.Active))
	for _, n := range p.Active {
		z := p.BaseZ + LateralOffset(n)
		if other, ok := occupied[z]; ok {
			return &ConflictError{Group: p.Group.ID, Tick: tick, Z: z, Note: n, Other: other}
		}
		occupied[z] = n
	}
	return nil
}

func directions(notes []song.Note) (left, right bool) {
	for _, n := range notes {
		switch sign(LateralOffset(n)) {
		case Left:
			left = true
		case Right:
			right = true
		}
	}
	return left, right
}

func percent(tick, length int) int {
	if length <= 0 {
		return 0
	}
	if tick >= length {
		return 100
	}
	return tick * 100 / length
}

// Check runs the layout without producing output and returns the first
// spatial conflict, if any.
func Check(ctx context.Context, s *song.Song, groups []config.Group) error {
	return NewEngine(nopStrategy{}).Run(ctx, &Run{Song: s, Groups: groups})
}
