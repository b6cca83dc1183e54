package layout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garik-/nbs2save/pkg/mapping"
	"github.com/Garik-/nbs2save/pkg/song"
)

const FunctionExt = ".mcfunction"

// CommandStrategy writes setblock and fill commands with the geometry of
// RegionStrategy. Commands are kept in memory and written by Finalize, one
// paragraph per group.
type CommandStrategy struct {
	path    string
	current *Pass
	groups  [][]string
}

func NewCommandStrategy() *CommandStrategy {
	return &CommandStrategy{}
}

// Initialize creates or truncates <output_file>.mcfunction.
func (s *CommandStrategy) Initialize(run *Run) error {
	if run.Generate.OutputFile == "" {
		return missingKey("output_file")
	}

	s.path = run.Generate.OutputFile + FunctionExt
	s.current = nil
	s.groups = nil

	f, err := os.Create(s.path)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}

func (s *CommandStrategy) WriteBackbone(p *Pass, tick int) {
	x := p.X(tick)
	s.write(p,
		setblock(x, p.BaseY, p.BaseZ, p.Cover),
		setblock(x, p.BaseY-1, p.BaseZ, p.Base),
		setblock(x-1, p.BaseY, p.BaseZ, Repeater),
		setblock(x-1, p.BaseY-1, p.BaseZ, p.Base),
	)
}

func (s *CommandStrategy) WritePlatform(p *Pass, tick, dir int) {
	if p.Built(tick, dir) {
		return
	}
	reach := MaxOffset(p.Active, tick, dir)
	if reach == 0 {
		return
	}

	x := p.X(tick)
	end := p.BaseZ + reach - dir

	commands := []string{
		fill(x, p.BaseY-1, p.BaseZ, end, p.Base),
		setblock(x, p.BaseY, p.BaseZ, p.Cover),
	}
	if abs(reach) > 1 {
		commands = append(commands, fill(x, p.BaseY, p.BaseZ+dir, end, Wire))
	}

	s.write(p, commands...)
	p.MarkBuilt(tick, dir)
}

func (s *CommandStrategy) WriteNote(p *Pass, n song.Note) {
	x, y, z := p.X(n.Tick), p.BaseY, p.BaseZ+LateralOffset(n)
	support := mapping.SupportBlock(n.Instrument)

	commands := []string{
		setblock(x, y, z, noteBlock(n)),
		setblock(x, y-1, z, support),
	}
	if mapping.IsSandLike(support) {
		commands = append(commands, setblock(x, y-2, z, "barrier"))
	}

	s.write(p, commands...)
}

// Finalize appends the buffered commands to the file.
func (s *CommandStrategy) Finalize(run *Run) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.WithStack(err)
	}

	bw := bufio.NewWriter(f)
	if _, err = s.WriteTo(bw); err != nil {
		f.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	if err = f.Close(); err != nil {
		return errors.WithStack(err)
	}

	commandLog.Info("saved", zap.String("path", s.path), zap.Int("commands", s.Len()))
	return nil
}

// WriteTo writes each group's commands newline separated followed by a
// blank line.
func (s *CommandStrategy) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, group := range s.groups {
		n, err := io.WriteString(w, strings.Join(group, "\n")+"\n\n")
		total += int64(n)
		if err != nil {
			return total, errors.WithStack(err)
		}
	}
	return total, nil
}

// Commands returns every buffered command in order.
func (s *CommandStrategy) Commands() []string {
	var out []string
	for _, group := range s.groups {
		out = append(out, group...)
	}
	return out
}

func (s *CommandStrategy) Len() int {
	n := 0
	for _, group := range s.groups {
		n += len(group)
	}
	return n
}

func (s *CommandStrategy) write(p *Pass, commands ...string) {
	if p != s.current {
		s.current = p
		s.groups = append(s.groups, nil)
	}
	last := len(s.groups) - 1
	s.groups[last] = append(s.groups[last], commands...)
}

func setblock(x, y, z int, block string) string {
	return fmt.Sprintf("setblock %d %d %d %s", x, y, z, block)
}

// fill covers the z range at a single x and y.
func fill(x, y, z1, z2 int, block string) string {
	return fmt.Sprintf("fill %d %d %d %d %d %d %s", x, y, z1, x, y, z2, block)
}
