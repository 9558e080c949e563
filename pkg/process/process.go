// Package process models one observable entity in the process table: a
// process or a thread. It is the generalization of
// commands.Container (pkg/commands/container.go) — same idea of "one row
// of live state plus derived display strings plus cached counters from the
// previous sample" — retargeted from a docker container's State/Details
// pair onto a PID's counters.
package process

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/utils"
)

// State is the scheduling state of a process, as reported by the Platform.
type State int

const (
	Unknown State = iota
	Running
	Sleeping
	DiskSleep
	Stopped
	Zombie
	Traced
	Idle
)

func (s State) String() string {
	switch s {
	case Running:
		return "R"
	case Sleeping:
		return "S"
	case DiskSleep:
		return "D"
	case Stopped:
		return "T"
	case Zombie:
		return "Z"
	case Traced:
		return "t"
	case Idle:
		return "I"
	default:
		return "?"
	}
}

// IOPriorityClass is the I/O scheduling class (see ioprio_set(2)).
type IOPriorityClass int

const (
	IOPrioNone IOPriorityClass = iota
	IOPrioRealtime
	IOPrioBestEffort
	IOPrioIdle
)

// Counters are the raw, monotonically increasing values the Platform reads
// directly off the kernel. They only ever grow (until the process exits and
// a new one with the same pid is considered a different process, never a
// continuation — see ProcessTable's "reappearing pid" edge case).
type Counters struct {
	UserTimeTicks   uint64
	SystemTimeTicks uint64
	MinorFaults     uint64
	MajorFaults     uint64
	ReadBytes       uint64
	WriteBytes      uint64
	VoluntaryCtx    uint64
	InvoluntaryCtx  uint64
}

// Sub computes the saturating per-period delta of every counter in c
// relative to prev: a wrapped or reset counter (new < prev) yields zero for
// that field, never a negative number.
func (c Counters) Sub(prev Counters) Counters {
	sat := func(a, b uint64) uint64 {
		if a < b {
			return 0
		}
		return a - b
	}
	return Counters{
		UserTimeTicks:   sat(c.UserTimeTicks, prev.UserTimeTicks),
		SystemTimeTicks: sat(c.SystemTimeTicks, prev.SystemTimeTicks),
		MinorFaults:     sat(c.MinorFaults, prev.MinorFaults),
		MajorFaults:     sat(c.MajorFaults, prev.MajorFaults),
		ReadBytes:       sat(c.ReadBytes, prev.ReadBytes),
		WriteBytes:      sat(c.WriteBytes, prev.WriteBytes),
		VoluntaryCtx:    sat(c.VoluntaryCtx, prev.VoluntaryCtx),
		InvoluntaryCtx:  sat(c.InvoluntaryCtx, prev.InvoluntaryCtx),
	}
}

// CPUTicks is the total (user+sys) tick count, the quantity percent_cpu is
// derived from.
func (c Counters) CPUTicks() uint64 { return c.UserTimeTicks + c.SystemTimeTicks }

// Memory holds the per-scan memory samples the Platform reports, all in
// bytes.
type Memory struct {
	Virtual  uint64
	Resident uint64
	Shared   uint64
	Text     uint64
	Data     uint64
	SwapPSS  uint64
}

// Identity is the subset of a process's fields that never change across its
// lifetime (it's reassigned wholesale from the Platform's raw fields on
// every scan, but never diffed against a previous value).
type Identity struct {
	PID           int32
	TGID          int32
	ParentPID     int32
	SessionID     int32
	ProcessGroup  int32
	TTY           string
	UID           uint32
	User          string
	Command       string // argv[0] / comm
	CommandLine   string
}

// Scheduling carries the process's current scheduling parameters.
type Scheduling struct {
	Priority    int
	Nice        int
	IOPrioClass IOPriorityClass
	IOPrioLevel int
	Policy      string
	LastCPU     int
}

// Process is one row of the process table: identity, live state, raw
// counters, and derived display/highlight state. The table owns Processes;
// everything else (Panel, presentation code) borrows a pointer.
type Process struct {
	Identity
	Scheduling

	State State

	Counters Counters
	Period   Counters // this scan's counters minus the previous scan's
	Memory   Memory

	PercentCPU float64
	PercentMem float64

	ReadBytesPerSec  float64
	WriteBytesPerSec float64

	// Unreadable is set when the platform could not read this row's detail
	// (permission denied, vanished mid-scan); the table keeps showing the
	// row with "no perm"/"N/A" rather than dropping it.
	Unreadable bool

	// Tag is the user-set boolean bulk actions apply to.
	Tag bool
	// ShowChildren is false when the operator collapsed this subtree.
	ShowChildren bool
	// Show is false when this row is hidden by the active filter.
	Show bool

	// updated is cleared at the start of every scan and set once the
	// Platform reports this pid again; any Process still false at scan end
	// is removed.
	updated bool
	// new is set when this Process is created and cleared by AdvanceAge
	// once HighlightDelay has elapsed since the row first appeared (at the
	// end of the creating scan when HighlightDelay is zero).
	new bool
	// ageInScans counts scans since creation, used for highlight-changes.
	ageInScans int

	// firstSeenMonotonicMs is the wall-clock the row first appeared, used
	// to decide whether HighlightDelay has elapsed (supplemented feature,
	// see SPEC_FULL.md §4).
	firstSeenMonotonicMs int64

	// indent is the tree-drawing bitmask computed by table.buildTree: bit k
	// set means "the node at depth k+1 on this row's path from its root (an
	// ancestor, or the row itself) has a later sibling", used by the
	// COMM renderer to draw vertical connectors. depth is the tree depth.
	indent uint64
	depth  int
	isLastChild bool
}

// New creates a fresh Process for pid, marked new and visible.
func New(id Identity) *Process {
	return &Process{
		Identity:     id,
		ShowChildren: true,
		Show:         true,
		new:          true,
		updated:      true,
	}
}

// IsNew reports whether this Process still carries the "new" marker: true
// from creation until AdvanceAge ages it out.
func (p *Process) IsNew() bool { return p.new }

// Updated reports whether this scan's Platform iteration has seen this pid
// again yet; table.sweep drops every row still false at scan end.
func (p *Process) Updated() bool { return p.updated }

// ClearUpdated resets the per-scan "seen again" marker; called once per
// row at the start of every scan.
func (p *Process) ClearUpdated() { p.updated = false }

// MarkUpdated records that the Platform reported this pid during the
// current scan.
func (p *Process) MarkUpdated() { p.updated = true }

// AdvanceAge is called once per row at the end of a scan that kept it: it
// counts the scan and, once highlightDelay has elapsed since the row first
// appeared (at once when highlightDelay is zero), ages it out of the "new"
// highlight.
func (p *Process) AdvanceAge(nowMs int64, highlightDelay time.Duration) {
	if p.firstSeenMonotonicMs == 0 {
		p.firstSeenMonotonicMs = nowMs
	}
	p.ageInScans++
	if highlightDelay > 0 && time.Duration(nowMs-p.firstSeenMonotonicMs)*time.Millisecond > highlightDelay {
		p.new = false
	} else if highlightDelay <= 0 {
		p.new = false
	}
}

// Highlighted reports whether this row should still draw with the
// "recently appeared" attribute.
func (p *Process) Highlighted() bool { return p.new }

// IsThread reports whether this row represents a thread rather than a
// thread-group leader.
func (p *Process) IsThread() bool { return p.TGID != 0 && p.TGID != p.PID }

// AgeInScans returns the number of completed scans since this row first
// appeared.
func (p *Process) AgeInScans() int { return p.ageInScans }

// Depth returns the tree depth assigned by the last buildTree call.
func (p *Process) Depth() int { return p.depth }

// Indent returns the tree indent bitmask assigned by the last buildTree
// call.
func (p *Process) Indent() uint64 { return p.indent }

// IsLastChild reports whether this row is the last child of its parent in
// the current tree order (so its connector glyph is a corner, not a tee).
func (p *Process) IsLastChild() bool { return p.isLastChild }

// SetTreePosition records this row's depth, indent bitmask, and
// last-child status as computed by the table's tree builder.
func (p *Process) SetTreePosition(depth int, indent uint64, isLastChild bool) {
	p.depth = depth
	p.indent = indent
	p.isLastChild = isLastChild
}

// DisplayCommand returns the command name, or a dimmed placeholder if the
// platform couldn't read it.
func (p *Process) DisplayCommand() string {
	if p.Unreadable {
		return utils.ColoredString("no perm", color.FgHiBlack)
	}
	if p.Command == "" {
		return "?"
	}
	return p.Command
}

// DisplayPercentCPU formats %CPU the way a loaded row earns a warm color,
// mirroring lazydocker's GetDisplayCPUPerc container coloring.
func (p *Process) DisplayPercentCPU() string {
	if p.Unreadable {
		return utils.ColoredString("N/A", color.FgHiBlack)
	}
	text := fmt.Sprintf("%5.1f", p.PercentCPU)
	var clr color.Attribute
	switch {
	case p.PercentCPU > 90:
		clr = color.FgRed
	case p.PercentCPU > 50:
		clr = color.FgYellow
	default:
		clr = color.FgWhite
	}
	return utils.ColoredString(text, clr)
}

// DisplayState colors the one-letter state code; zombies and stopped
// processes draw attention in red/yellow the way lazydocker colors
// container lifecycle states.
func (p *Process) DisplayState() string {
	clr := color.FgWhite
	switch p.State {
	case Zombie, Stopped:
		clr = color.FgRed
	case Running:
		clr = color.FgGreen
	case DiskSleep:
		clr = color.FgYellow
	}
	return utils.ColoredString(p.State.String(), clr)
}
