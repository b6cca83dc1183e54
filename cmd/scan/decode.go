package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/input"
	"github.com/Garik-/nbs2save/pkg/layout"
	"github.com/Garik-/nbs2save/pkg/midi"
	"github.com/Garik-/nbs2save/pkg/song"
)

type result struct {
	name   string
	notes  int
	length int
	layers int
	// conflict found by the layout, nil when the song fits
	conflict error
	err      error
}

// allLayers puts every layer of s into a single group at the origin.
func allLayers(s *song.Song) []config.Group {
	seen := make(map[int]bool)
	g := config.Group{Mode: config.ModeDefault}
	for _, n := range s.Notes {
		if !seen[n.Layer] {
			seen[n.Layer] = true
			g.Layers = append(g.Layers, n.Layer)
		}
	}
	return []config.Group{g}
}

func countLayers(s *song.Song) int {
	return len(allLayers(s)[0].Layers)
}

func decodeFile(ctx context.Context, name string, groups []config.Group) *result {
	out := &result{name: name}

	s, err := input.Decode(name, midi.SongOptions{Fold: true})
	if err != nil {
		out.err = err
		return out
	}

	out.notes = len(s.Notes)
	out.length = s.Length
	out.layers = countLayers(s)

	if groups == nil {
		groups = allLayers(s)
	}
	out.conflict = layout.Check(ctx, s, groups)
	return out
}

func decodeWorker(ctx context.Context, paths <-chan string, groups []config.Group, cntRoutines int) (<-chan *result, <-chan struct{}) {
	log := decoderLog.Named("decodeWorker")
	out := make(chan *result)
	done := make(chan struct{}, 1)

	go func() {
		var wg sync.WaitGroup
		goroutines := make(chan struct{}, cntRoutines)

	loop:
		for path := range paths {
			select {
			case goroutines <- struct{}{}:
			case <-ctx.Done():
				log.Debug("context done")
				break loop
			}
			wg.Add(1)
			go func(ctx context.Context, path string, goroutines <-chan struct{}, out chan<- *result, wg *sync.WaitGroup) {
				defer wg.Done()

				select {
				case out <- decodeFile(ctx, path, groups):
				case <-ctx.Done():
					log.Debug("decodeFile context done", zap.String("path", path))
				}
				<-goroutines

			}(ctx, path, goroutines, out, &wg)
		}

		wg.Wait()
		close(goroutines)
		close(out)

		done <- struct{}{}
		close(done)
	}()

	return out, done
}
