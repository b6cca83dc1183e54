package main

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/config"
)

type report struct {
	files     int
	failed    []*result
	conflicts []*result
}

func (r *report) ok() bool {
	return len(r.failed) == 0 && len(r.conflicts) == 0
}

// newReport checks every file of paths and collects the ones that can't be
// decoded or laid out.
func newReport(parent context.Context, paths <-chan string, groups []config.Group, cntRoutines int) *report {
	log := reportLog.Named("newReport")
	ctx, cancel := context.WithCancel(parent)
	results, done := decodeWorker(ctx, paths, groups, cntRoutines)

	defer func() {
		log.Debug("cancel")
		cancel()
		<-done // wait decodeWorker closed
	}()

	r := &report{}

	for result := range results {
		r.files++

		switch {
		case result.err != nil:
			log.Warn("decode", zap.String("name", result.name), zap.Error(result.err))
			r.failed = append(r.failed, result)
		case result.conflict != nil:
			log.Warn("conflict", zap.String("name", result.name), zap.Error(result.conflict))
			r.conflicts = append(r.conflicts, result)
		default:
			log.Info("ok",
				zap.String("name", result.name),
				zap.Int("notes", result.notes),
				zap.Int("length", result.length),
				zap.Int("layers", result.layers))
		}
	}

	byName := func(s []*result) {
		sort.Slice(s, func(i, j int) bool { return s[i].name < s[j].name })
	}
	byName(r.failed)
	byName(r.conflicts)

	return r
}
