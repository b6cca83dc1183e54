package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/input"
	"github.com/Garik-/nbs2save/pkg/layout"
	"github.com/Garik-/nbs2save/pkg/midi"
	"github.com/Garik-/nbs2save/pkg/nbs"
	"github.com/Garik-/nbs2save/pkg/schematic"
)

var (
	configFlag  = flag.String("c", "config.yaml", "The path to the yaml config")
	inFlag      = flag.String("i", "", "Input .nbs or .mid file, overrides generate.input_file")
	outFlag     = flag.String("o", "", "Output path without extension, overrides generate.output_file")
	typeFlag    = flag.String("t", "", "Output type: schematic, function or mcfunction, overrides generate.type")
	strictFlag  = flag.Bool("strict", false, "Fail when a layer belongs to more than one group")
	verboseFlag = flag.Bool("v", false, "Verbose development logging")
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func setLogger(l *zap.Logger) {
	nbs.SetLogger(l)
	midi.SetLogger(l)
	input.SetLogger(l)
	schematic.SetLogger(l)
	layout.SetLogger(l)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, err
	}

	if *inFlag != "" {
		cfg.Generate.InputFile = *inFlag
	}
	if *outFlag != "" {
		cfg.Generate.OutputFile = *outFlag
	}
	if *typeFlag != "" {
		cfg.Generate.Type = strings.ToLower(*typeFlag)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Generate.InputFile == "" {
		return nil, errors.Wrap(config.ErrInvalid, "input_file is empty")
	}
	return cfg, nil
}

func run(ctx context.Context, log *zap.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "config")
	}

	for layer, ids := range cfg.Overlaps() {
		if *strictFlag {
			return errors.Wrapf(config.ErrInvalid, "layer %d belongs to groups %v", layer, ids)
		}
		log.Warn("layer belongs to several groups", zap.Int("layer", layer), zap.Ints("groups", ids))
	}

	s, err := input.Decode(cfg.Generate.InputFile, midi.SongOptions{Fold: true})
	if err != nil {
		return err
	}
	log.Info("song loaded",
		zap.String("path", cfg.Generate.InputFile),
		zap.Int("notes", len(s.Notes)),
		zap.Int("length", s.Length))

	strategy, err := layout.NewStrategy(cfg.Generate, cfg.Groups)
	if err != nil {
		return err
	}

	last := -10
	engine := layout.NewEngine(strategy, layout.WithProgress(func(percent int) {
		if percent/10 != last/10 {
			last = percent
			log.Debug("progress", zap.Int("percent", percent))
		}
	}))

	return engine.Run(ctx, &layout.Run{
		Generate: cfg.Generate,
		Groups:   cfg.Groups,
		Song:     s,
	})
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -c config.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *configFlag == "" {
		flag.Usage()
		return
	}

	log, err := newLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	setLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, log); err != nil {
		var conflict *layout.ConflictError
		if errors.As(err, &conflict) {
			log.Error("spatial conflict",
				zap.Int("group", conflict.Group),
				zap.Int("tick", conflict.Tick),
				zap.Int("z", conflict.Z),
				zap.Int("layer", conflict.Note.Layer),
				zap.Int("otherLayer", conflict.Other.Layer))
		}
		log.Fatal("generation failed", zap.Error(err))
	}
}
