// Package platform declares the interfaces the sampling engine consumes
// from per-OS code, terminal libraries, and external helper processes.
// Real /proc, sysctl, Mach, kstat and PCP readers, curses/terminfo
// primitives, and lsof/strace argument-building belong to adapters that
// implement these interfaces, not to the core.
//
// The one exception is Platform's test double (testplatform, a sibling
// package) and the gopsutil-backed implementation cmd/proctop runs on —
// neither is a
// from-scratch OS reader, but both let the rest of this module be
// exercised and demoed without a hand-written OS-specific backend.
package platform

import (
	"context"

	"github.com/ncruces/proctop/pkg/process"
)

// RawProcess is the bag of fields a Platform reports for one pid during a
// scan; ProcessTable.Upsert folds it onto an existing or newly-allocated
// Process.
type RawProcess struct {
	Identity   process.Identity
	Scheduling process.Scheduling
	State      process.State
	Counters   process.Counters
	Memory     process.Memory
	Unreadable bool
}

// Sink is what a Platform scans processes into. ProcessTable implements it;
// tests can implement a recording Sink to assert on raw upserts without a
// full table.
type Sink interface {
	Upsert(RawProcess)
}

// ACState is the AC-power connection state for the battery meter.
type ACState int

const (
	ACUnknown ACState = iota
	ACOnBattery
	ACOnline
)

// DiskIOData is aggregate disk I/O, in bytes/sec once divided by the
// sampler's elapsed time.
type DiskIOData struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// NetworkIOData is aggregate network I/O, in bytes/sec once divided by the
// sampler's elapsed time.
type NetworkIOData struct {
	RxBytes uint64
	TxBytes uint64
}

// MeterClass describes one kind of meter a Platform can feed (see
// pkg/meter). Platforms advertise the set they support via MeterTypes.
type MeterClass struct {
	Name    string
	Caption string
}

// SignalItem is one entry in the signal picker (kill -<n>).
type SignalItem struct {
	Number int
	Name   string
}

// Platform is the per-OS process/metrics provider contract.
type Platform interface {
	// Scan refreshes aggregate system stats into sink; if pause is false it
	// also iterates every process, calling sink.Upsert for each. When pause
	// is true only header-meter metrics may be refreshed — the process set
	// must be left untouched.
	Scan(ctx context.Context, sink Sink, pause bool) error

	Uptime() (int64, error)
	LoadAverage() (one, five, fifteen float64, err error)
	MaxPID() (int32, error)

	ExistingCPUs() int
	ActiveCPUs() int

	SetCPUValues(cpu int) (values []float64, err error)
	SetMemoryValues() (values []float64, total float64, err error)
	SetSwapValues() (values []float64, total float64, err error)

	ProcessEnv(pid int32) (string, error)
	ProcessLocks(pid int32) (string, error)
	DiskIO() (DiskIOData, error)
	NetworkIO() (NetworkIOData, error)
	Battery() (percent float64, state ACState, err error)

	MeterTypes() []MeterClass
	Signals() []SignalItem
}

// TerminalSurface is what the display framework writes cells to and reads
// key/mouse events from — the curses/terminfo substitute. pkg/screen's
// gocui-backed implementation satisfies this.
type TerminalSurface interface {
	Size() (cols, rows int)
	SetCell(x, y int, r rune, attr uint32)
	Flush() error
	// ReadEvent blocks for at most the given deadline (zero means forever)
	// waiting for a key or mouse event; it returns ok=false on timeout.
	ReadEvent(timeoutMs int) (Event, bool)
}

// EventKind distinguishes the three input shapes the screen loop handles.
type EventKind int

const (
	EventNone EventKind = iota
	EventKey
	EventMouse
	EventResize
)

// Event is one input occurrence read from a TerminalSurface.
type Event struct {
	Kind EventKind
	Key  rune
	// MouseX/MouseY are set for EventMouse.
	MouseX, MouseY int
	// MouseRelease distinguishes a button release (the only mouse event
	// that translates into panel actions) from a press.
	MouseRelease bool
}

// Non-printable key codes Event.Key carries, assigned from Unicode's
// Private Use Area so they never collide with a typed character. A real
// TerminalSurface (gocui's termbox-derived Key type, for example)
// translates its own special-key encoding into these before posting an
// Event, keeping Stackable.HandleKey implementations independent of any
// particular terminal library's key numbering.
const (
	KeyUp rune = 0xE000 + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPgUp
	KeyPgDn
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
	KeyEnter
	KeyEsc
	KeyTab
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
)
