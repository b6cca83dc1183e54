package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/config"
	"github.com/Garik-/nbs2save/pkg/input"
	"github.com/Garik-/nbs2save/pkg/layout"
	"github.com/Garik-/nbs2save/pkg/midi"
	"github.com/Garik-/nbs2save/pkg/nbs"
)

const (
	maxGoroutines = 10
)

var (
	listFlag    = flag.String("l", "", "The path to the list of song files,\nfind . -type f -name \"*.nbs\" > song_list.txt")
	maxFlag     = flag.Int("p", maxGoroutines, "Number of files processed in parallel, must be > 0")
	configFlag  = flag.String("c", "", "Check against the groups of this config instead of one group with every layer")
	verboseFlag = flag.Bool("v", false, "Debug logging")
)

func readList(file *os.File) <-chan string {
	out := make(chan string)

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)

	go func() {
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				out <- line
			}
		}
		close(out)
	}()

	return out
}

func loadGroups(path string) ([]config.Group, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Groups, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listFlag == "" {
		flag.Usage()
		return
	}

	if *maxFlag <= 0 {
		flag.Usage()
		return
	}

	var logger *zap.Logger
	var err error
	if *verboseFlag {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	enableDebugLogging(logger)
	if *verboseFlag {
		nbs.SetLogger(logger)
		midi.SetLogger(logger)
		input.SetLogger(logger)
		layout.SetLogger(logger)
	}

	groups, err := loadGroups(*configFlag)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	f, err := os.Open(*listFlag)
	if err != nil {
		logger.Fatal("list", zap.Error(err))
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := readList(f)
	r := newReport(ctx, paths, groups, *maxFlag)

	for _, res := range r.failed {
		fmt.Printf("FAIL     %s: %v\n", res.name, res.err)
	}
	for _, res := range r.conflicts {
		fmt.Printf("CONFLICT %s: %v\n", res.name, res.conflict)
	}
	fmt.Printf("%d files, %d failed, %d with conflicts\n", r.files, len(r.failed), len(r.conflicts))

	if !r.ok() {
		logger.Sync()
		os.Exit(1)
	}
}
