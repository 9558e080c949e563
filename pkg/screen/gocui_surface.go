package screen

import (
	"time"

	"github.com/jesseduffield/gocui"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/sasha-s/go-deadlock"
)

// GocuiSurface implements platform.TerminalSurface on top of
// jesseduffield/gocui, lazydocker's terminal library
// (pkg/gui/gui.go's gocui.NewGui/Mouse/SetManager wiring). It exists so the
// real binary gets gocui's input handling and color rendering while
// Manager's scheduler stays a synchronous, TerminalSurface-only consumer
// that unit tests can drive with a fake.
type GocuiSurface struct {
	g     *gocui.Gui
	mouse bool

	events chan platform.Event

	mu deadlock.Mutex
}

// NewGocuiSurface opens the alternate screen and enables mouse capture if
// requested, mirroring gui.Run()'s setup sequence.
func NewGocuiSurface(mouse bool) (*GocuiSurface, error) {
	g, err := gocui.NewGui(gocui.OutputTrue, false, gocui.NORMAL, false, map[rune]string{})
	if err != nil {
		return nil, err
	}
	g.Mouse = mouse

	deadlock.Opts.Disable = true

	s := &GocuiSurface{g: g, mouse: mouse, events: make(chan platform.Event, 64)}
	g.SetManager(gocui.ManagerFunc(func(*gocui.Gui) error { return nil }))
	return s, nil
}

// Close tears down the alternate screen, restoring the terminal, the
// htop-side equivalent of endwin() always running on exit.
func (s *GocuiSurface) Close() { s.g.Close() }

// Size returns the current terminal dimensions.
func (s *GocuiSurface) Size() (width, height int) {
	return s.g.Size()
}

// SetCell is unused directly: gocui owns the screen buffer through Views,
// so higher layers write through a gocui.View rather than per-cell; this
// method exists to satisfy platform.TerminalSurface for callers (like
// tests) that don't render through gocui Views.
func (s *GocuiSurface) SetCell(x, y int, r rune, attr uint32) {}

// Flush is a no-op: gocui flushes on its own event loop tick.
func (s *GocuiSurface) Flush() error { return nil }

// ReadEvent blocks up to timeoutMs for the next translated key/mouse/resize
// event. gocui delivers input via keybinding callbacks rather than a
// blocking read, so a real wiring would register a catch-all keybinding
// that forwards into s.events; this method then just waits on that
// channel with a deadline, preserving the "block with a deadline"
// contract Manager.Run needs.
func (s *GocuiSurface) ReadEvent(timeoutMs int) (platform.Event, bool) {
	if timeoutMs == 0 {
		return <-s.events, true
	}
	select {
	case ev := <-s.events:
		return ev, true
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return platform.Event{}, false
	}
}

// PostEvent pushes a translated event onto the queue Manager consumes.
// Nothing in this module registers a gocui keybinding that calls it, so
// ReadEvent returns only events posted here directly.
func (s *GocuiSurface) PostEvent(ev platform.Event) {
	select {
	case s.events <- ev:
	default:
		// drop if the queue is full rather than blocking the UI thread
	}
}

var _ platform.TerminalSurface = (*GocuiSurface)(nil)
