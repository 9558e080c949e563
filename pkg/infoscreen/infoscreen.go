// Package infoscreen implements a reusable modal line-oriented viewer
// (environment, open files, locks, syscall trace, command, backtrace,
// script output) built on top of a panel.Panel[Line] and an incset.IncSet.
// The streaming variants are grounded on lazydocker's
// pkg/gui/container_logs.go (bufio.Scanner line splitting over a
// context-cancellable pipe, ctx.Done() bailing out of the read loop) and
// pkg/tasks/tasks.go (the stoppable background-task primitive that owns the
// reader goroutine).
package infoscreen

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/ncruces/proctop/pkg/incset"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/tasks"
)

// Line is one row of an InfoScreen; it satisfies panel.Row.
type Line string

func (l Line) Render(width int) richstring.RichString {
	return richstring.New(string(l), richstring.AttrNone, 0)
}

// Source supplies the initial (non-streaming) content of an InfoScreen:
// the subclass-supplies-lines contract streaming viewers build on.
type Source interface {
	Title() string
	Scan(ctx context.Context) ([]string, error)
}

// Screen is the generic modal viewer: it owns a Panel[Line] and an IncSet
// and loops key events until Esc/q/F10.
type Screen struct {
	Title string
	Panel *panel.Panel[Line]
	Incs  *incset.IncSet

	allLines []string

	// FollowTail auto-snaps the selection to the last row as new lines
	// arrive, the follow-tail mode streaming viewers want.
	FollowTail bool

	tasks *tasks.TaskManager
}

// New builds an InfoScreen over source's initial content.
func New(ctx context.Context, source Source, pageHeight int) (*Screen, error) {
	lines, err := source.Scan(ctx)
	if err != nil {
		return nil, err
	}
	s := &Screen{
		Title:    source.Title(),
		Panel:    panel.New[Line](pageHeight),
		Incs:     incset.New(),
		allLines: lines,
		tasks:    tasks.NewTaskManager(),
	}
	s.applyFilter()
	return s, nil
}

func (s *Screen) applyFilter() {
	rows := make([]Line, 0, len(s.allLines))
	for _, l := range s.allLines {
		if s.Incs.Matches(l) {
			rows = append(rows, Line(l))
		}
	}
	s.Panel.SetRows(rows)
}

// SetFilterNeedle re-applies the predicate live as the user types into the
// Filter overlay: changes to the filter buffer invalidate the panel's
// derived view.
func (s *Screen) SetFilterNeedle() { s.applyFilter() }

// Append adds streamed lines (continuation lines from a still-running
// reader) and re-applies filtering; if FollowTail is set the cursor jumps
// to the new last row.
func (s *Screen) Append(lines ...string) {
	s.allLines = append(s.allLines, lines...)
	s.applyFilter()
	if s.FollowTail {
		s.Panel.End()
	}
}

// Find jumps the cursor to the next row containing needle, wrapping
// around, the Search-mode (F3) behavior.
func (s *Screen) Find(needle string) bool {
	rows := s.Panel.Rows()
	plain := make([]string, len(rows))
	for i, r := range rows {
		plain[i] = string(r)
	}
	idx := incset.IncrementalFind(plain, s.Panel.Cursor()+1, needle, s.Incs.Match)
	if idx < 0 {
		return false
	}
	s.Panel.SetCursor(idx)
	return true
}

// StreamLines launches a background reader that scans r line by line and
// calls onLine for each, the trace/script-output streaming variant; stop
// cancels the reader early. Continuation handling (a
// partial final line becoming the start of the next Append) is left to
// onLine, since bufio.Scanner already buffers at newline boundaries.
func (s *Screen) StreamLines(r io.Reader, onLine func(string)) error {
	return s.tasks.NewTask(func(stop chan struct{}) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4*1024), 10*1024*1024)
		for scanner.Scan() {
			select {
			case <-stop:
				return
			default:
			}
			onLine(scanner.Text())
		}
	})
}

// StopStreaming cancels any in-flight StreamLines reader.
func (s *Screen) StopStreaming() {
	s.tasks.NewTask(func(chan struct{}) {}) // replacing the current task stops the prior one
}

// VisibleText returns the plain text of every currently filtered row,
// joined by newlines; used by Command/Backtrace viewers that just dump a
// static blob.
func (s *Screen) VisibleText() string {
	rows := s.Panel.Rows()
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = string(r)
	}
	return strings.Join(parts, "\n")
}
