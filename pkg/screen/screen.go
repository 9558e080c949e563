// Package screen implements the sampling scheduler and the ScreenManager
// panel stack: a single-threaded, cooperative loop that blocks on
// TerminalSurface input with a deadline, scans the process table when the
// deadline elapses, and dispatches keys/mouse events to whichever Panel
// has focus.
//
// It is grounded on lazydocker's pkg/gui/gui.go Run() for the ambient
// shape (NewGui-style constructor, a throttled redraw path, an error
// channel drained by a background goroutine) but the event loop itself
// replaces gocui's always-on event-driven model with htop's synchronous
// getch-with-timeout scheduler, since the concurrency model here is
// explicitly single-threaded/cooperative, and TerminalSurface (the
// Curses/terminfo abstraction treated as external) is what stands in for
// gocui's run loop here.
package screen

import (
	"context"
	"time"

	"github.com/boz/go-throttle"
	"github.com/ncruces/proctop/pkg/header"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/table"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Delay is the sampling interval in tenths of a second, clamped to
// [1, 100] by the -d/--delay flag.
type Delay int

func (d Delay) Duration() time.Duration { return time.Duration(d) * 100 * time.Millisecond }

// Stackable is anything the ScreenManager can give focus to: a Panel, a
// modal sub-screen, or a setup category panel. Each must translate a key
// into a Result the manager interprets.
type Stackable interface {
	HandleKey(key rune) (Result, rune)
	Draw(width int) [][]byte // pre-rendered rows, terminal-ready
}

// Pusher is an optional Stackable capability: after a key is handled, the
// focused Stackable may have a new Stackable ready to open as a modal
// sub-screen (such as setup). TakePush returns it and clears the
// pending request, letting any Stackable request a push without holding
// a reference back to the Manager it's pushed onto.
type Pusher interface {
	TakePush() Stackable
}

// Result mirrors panel.Result; re-declared here so screen doesn't import
// panel just for the enum (screen's Stackable is broader than Panel).
type Result int

const (
	ResultHandled Result = iota
	ResultIgnored
	ResultBreakLoop
	ResultRefresh
	ResultRedraw
	ResultRescan
	ResultResize
	ResultSynthKey
)

// Manager owns the panel stack, the header, the process table, and the
// sampling cadence state machine.
type Manager struct {
	Log *logrus.Entry

	Surface  platform.TerminalSurface
	Platform platform.Platform
	Table    *table.Table
	Header   *header.Header

	Stack []Stackable
	Focus int

	Delay Delay

	// sortTimeout counts down scans before the next forced sort_view():
	// typed navigation suppresses re-sort jitter for ~5 cycles.
	sortTimeout int
	lastTick    int64

	// idleIterations counts consecutive empty polls; 100 in a row exits
	// the loop, a test-harness safety valve.
	idleIterations int

	Paused   bool
	Quit     bool
	Readonly bool

	Mutex deadlock.Mutex

	throttledRedraw throttle.ThrottleDriver

	ErrorChan chan error
}

// New builds a Manager.
func New(log *logrus.Entry, surface platform.TerminalSurface, plat platform.Platform, tbl *table.Table, hdr *header.Header) *Manager {
	deadlock.Opts.Disable = true
	m := &Manager{
		Log:         log,
		Surface:     surface,
		Platform:    plat,
		Table:       tbl,
		Header:      hdr,
		Delay:       15,
		sortTimeout: 1,
		ErrorChan:   make(chan error, 16),
	}
	m.throttledRedraw = throttle.ThrottleFunc(time.Millisecond*50, true, func() {})
	return m
}

// Push adds a Stackable on top of the panel stack and gives it focus,
// for nested use by modal sub-screens.
func (m *Manager) Push(s Stackable) {
	m.Stack = append(m.Stack, s)
	m.Focus = len(m.Stack) - 1
}

// Pop removes the topmost Stackable (a sub-screen returning to its
// caller).
func (m *Manager) Pop() {
	if len(m.Stack) == 0 {
		return
	}
	m.Stack = m.Stack[:len(m.Stack)-1]
	if m.Focus >= len(m.Stack) {
		m.Focus = len(m.Stack) - 1
	}
}

// Current returns the focused Stackable, or nil if the stack is empty.
func (m *Manager) Current() Stackable {
	if m.Focus < 0 || m.Focus >= len(m.Stack) {
		return nil
	}
	return m.Stack[m.Focus]
}

// Run executes the main loop until Quit is set, BREAK_LOOP is returned by
// the focused Stackable, or the idle safety break fires.
func (m *Manager) Run(ctx context.Context) error {
	for !m.Quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		timeoutMs := int(m.Delay.Duration() / time.Millisecond)
		ev, ok := m.Surface.ReadEvent(timeoutMs)

		if !ok {
			// Deadline elapsed with no input: scan, then sort if due.
			if err := m.Table.Scan(ctx, m.Platform, m.Paused); err != nil {
				m.ErrorChan <- err
			}
			m.Header.Update()
			m.tickSort()
			m.idleIterations++
			if m.idleIterations >= 100 {
				return nil
			}
			continue
		}
		m.idleIterations = 0

		switch ev.Kind {
		case platform.EventResize:
			m.handleResize()
		case platform.EventKey:
			m.dispatchKey(ctx, ev.Key)
		case platform.EventMouse:
			m.dispatchMouse(ctx, ev)
		}
	}
	return nil
}

// tickSort decrements the re-sort suppression counter and rebuilds the
// view when it (or tree view) demands it.
func (m *Manager) tickSort() {
	if m.sortTimeout <= 0 || m.Table.TreeView() {
		m.Table.SortView()
		m.sortTimeout = 1
		return
	}
	m.sortTimeout--
	if m.sortTimeout == 0 {
		m.Table.SortView()
	}
}

// resetSortSuppression is called whenever a key reaches the default
// handler.
func (m *Manager) resetSortSuppression() { m.sortTimeout = 5 }

func (m *Manager) dispatchKey(ctx context.Context, key rune) {
	cur := m.Current()
	if cur == nil {
		return
	}
	result, synth := cur.HandleKey(key)
	m.resetSortSuppression()
	switch result {
	case ResultBreakLoop:
		if len(m.Stack) > 1 {
			m.Pop()
		} else {
			m.Quit = true
		}
	case ResultRescan:
		_ = m.Table.Scan(ctx, m.Platform, m.Paused)
	case ResultResize:
		m.handleResize()
	case ResultSynthKey:
		m.dispatchKey(ctx, synth)
	}
	if pusher, ok := cur.(Pusher); ok {
		if next := pusher.TakePush(); next != nil {
			m.Push(next)
		}
	}
}

func (m *Manager) handleResize() {
	w, h := m.Surface.Size()
	_ = w
	_ = h
	// The size is read and discarded: no panel is re-laid out here and no
	// redraw is forced.
}

// MouseTranslation is the decoded meaning of a mouse release.
type MouseTranslation int

const (
	MouseNone MouseTranslation = iota
	MouseFunctionBar
	MouseHeaderClick
	MouseBodyClick
	MouseWheelUp
	MouseWheelDown
)

func (m *Manager) dispatchMouse(ctx context.Context, ev platform.Event) {
	t := translateMouse(ev, m.bottomRow(), m.headerRowsOf(m.Current()))
	switch t {
	case MouseWheelUp:
		m.dispatchKey(ctx, 'k')
	case MouseWheelDown:
		m.dispatchKey(ctx, 'j')
	case MouseBodyClick:
		// Body clicks are ignored: no row is selected and focus does not
		// move (the main layout is a single full-width panel).
	}
}

func (m *Manager) bottomRow() int {
	_, h := m.Surface.Size()
	return h - 1
}

func (m *Manager) headerRowsOf(s Stackable) int {
	if s == nil {
		return 0
	}
	return len(s.Draw(0))
}

// translateMouse decodes a mouse release: on the bottom row it maps to
// the function bar, above headerRows to a header click, and anywhere else
// to a body click. Wheel events are not decoded, so it never returns
// MouseWheelUp or MouseWheelDown.
func translateMouse(ev platform.Event, bottomRow, headerRows int) MouseTranslation {
	if !ev.MouseRelease {
		return MouseNone
	}
	switch {
	case ev.MouseY == bottomRow:
		return MouseFunctionBar
	case ev.MouseY < headerRows:
		return MouseHeaderClick
	default:
		return MouseBodyClick
	}
}
