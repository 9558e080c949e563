// Package table implements the process-table snapshot model: diffing
// successive scans into derived rates, and building the tree view. It owns
// every Process (pid -> *Process, analogous to lazydocker's FilteredList
// owning a slice of *commands.Container, pkg/gui/panels/filtered_list.go)
// and keeps a parallel view order that Panel borrows from.
package table

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/process"
)

// Less compares two processes for the flat sort order; ties must be broken
// by pid ascending so the tree DFS stays stable and never flickers between
// scans with equal sort keys.
type Less func(a, b *process.Process) bool

// ByPID is the default comparator and the tie-breaker every other
// comparator must fall back to.
func ByPID(a, b *process.Process) bool { return a.PID < b.PID }

// ByPercentCPUDesc sorts heaviest CPU users first.
func ByPercentCPUDesc(a, b *process.Process) bool {
	if a.PercentCPU != b.PercentCPU {
		return a.PercentCPU > b.PercentCPU
	}
	return ByPID(a, b)
}

// Table is the process table: a keyed set of Process objects that
// diff-merges successive scans, computes period deltas, and builds the
// tree/flat view order.
type Table struct {
	mu sync.Mutex

	byPID map[int32]*process.Process
	view  []*process.Process // borrowed pointers, current display order

	lessFn Less
	tree   bool

	existingCPUs int
	activeCPUs   int

	lastMonotonicMs int64
	lastRealtimeMs  int64
	elapsedSeconds  float64

	TotalCount   int
	RunningCount int
	// ThreadCount/ProcessCount split the view by process.IsThread (a row
	// whose tgid differs from its pid); real kernel-thread accounting is a
	// Platform-side concern this table doesn't have data for.
	ThreadCount  int
	ProcessCount int

	// HighlightDelay is how long (wall-clock) a newly-appeared row keeps
	// its "new" highlight, the highlight-changes feature. Zero disables
	// highlighting.
	HighlightDelay time.Duration

	// nowMs lets tests pin the clock instead of depending on time.Now.
	nowMs func() int64
}

// New builds an empty Table. lessFn is the initial flat-view comparator.
func New(lessFn Less) *Table {
	if lessFn == nil {
		lessFn = ByPID
	}
	return &Table{
		byPID:  map[int32]*process.Process{},
		lessFn: lessFn,
		nowMs:  func() int64 { return time.Now().UnixMilli() },
	}
}

// SetNowFunc overrides the wall-clock source; used only by tests.
func (t *Table) SetNowFunc(f func() int64) { t.nowMs = f }

// SetComparator changes the flat/tree-sibling ordering comparator.
func (t *Table) SetComparator(less Less) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if less == nil {
		less = ByPID
	}
	t.lessFn = less
}

// SetTreeView toggles tree vs flat ordering for the next SortView call.
func (t *Table) SetTreeView(tree bool) { t.tree = tree }

// TreeView reports whether tree ordering is active.
func (t *Table) TreeView() bool { return t.tree }

// Find returns the Process for pid, if present.
func (t *Table) Find(pid int32) (*process.Process, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.byPID[pid]
	return p, ok
}

// Len returns the number of rows in the current view.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.view)
}

// View returns the current display order. Callers must not mutate the
// returned slice; it is borrowed.
func (t *Table) View() []*process.Process {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*process.Process, len(t.view))
	copy(out, t.view)
	return out
}

// Upsert implements platform.Sink: it is called once per pid during a
// scan, in platform-iteration order.
func (t *Table) Upsert(raw platform.RawProcess) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, exists := t.byPID[raw.Identity.PID]
	if !exists {
		p = process.New(raw.Identity)
		t.byPID[raw.Identity.PID] = p
		t.view = append(t.view, p)
	} else {
		// Preserve tag/show_children/show across the update; everything
		// else is overwritten below.
		p.Identity = raw.Identity
	}

	prevCounters := p.Counters
	p.Scheduling = raw.Scheduling
	p.State = raw.State
	p.Memory = raw.Memory
	p.Unreadable = raw.Unreadable
	p.Counters = raw.Counters
	p.Period = raw.Counters.Sub(prevCounters)

	if t.elapsedSeconds > 0 {
		p.PercentCPU = percentCPU(p.Period.CPUTicks(), t.elapsedSeconds, t.activeCPUs)
		p.ReadBytesPerSec = float64(p.Period.ReadBytes) / t.elapsedSeconds
		p.WriteBytesPerSec = float64(p.Period.WriteBytes) / t.elapsedSeconds
	}

	p.MarkUpdated()
}

// percentCPU computes ticks/elapsed*100, clamped to [0, 100*activeCPUs]
// so a fully loaded N-core process can report up to 100*N percent.
func percentCPU(periodTicks uint64, elapsedSeconds float64, activeCPUs int) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	const clkTck = 100.0 // CLK_TCK, ticks per second
	pct := float64(periodTicks) / clkTck / elapsedSeconds * 100.0
	if activeCPUs < 1 {
		activeCPUs = 1
	}
	return math.Min(math.Max(pct, 0), 100.0*float64(activeCPUs))
}

// Scan clears the update marker on every row, asks the Platform for the
// current process set (unless pause is set, in which case only
// aggregate/meter data refreshes), then removes whatever
// wasn't seen this scan.
func (t *Table) Scan(ctx context.Context, p platform.Platform, pause bool) error {
	nowMs := t.nowMs()
	elapsed := 1.0
	t.mu.Lock()
	if t.lastMonotonicMs != 0 {
		elapsed = float64(nowMs-t.lastMonotonicMs) / 1000.0
		if elapsed <= 0 {
			elapsed = 1.0
		}
	}
	t.elapsedSeconds = elapsed
	t.activeCPUs = p.ActiveCPUs()
	t.existingCPUs = p.ExistingCPUs()
	if !pause {
		for _, proc := range t.byPID {
			proc.ClearUpdated()
		}
	}
	t.mu.Unlock()

	if err := p.Scan(ctx, t, pause); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !pause {
		t.sweep(nowMs)
	}

	t.lastMonotonicMs = nowMs
	t.lastRealtimeMs = nowMs
	t.recomputeAggregatesLocked()
	return nil
}

// sweep drops every row whose updated flag is still false (it vanished
// between scans) and ages the survivors. A pid that reappears after
// disappearing always goes through Upsert's "!exists" branch and gets a
// fresh *process.Process, so no counter ever carries over across a gap.
func (t *Table) sweep(nowMs int64) {
	kept := t.view[:0]
	for _, p := range t.view {
		if !p.Updated() {
			delete(t.byPID, p.PID)
			continue
		}
		p.AdvanceAge(nowMs, t.HighlightDelay)
		kept = append(kept, p)
	}
	t.view = kept
}

func (t *Table) recomputeAggregatesLocked() {
	t.TotalCount = len(t.view)
	running, threads, procs := 0, 0, 0
	for _, p := range t.view {
		if p.State == process.Running {
			running++
		}
		if p.IsThread() {
			threads++
		} else {
			procs++
		}
	}
	t.RunningCount = running
	t.ThreadCount = threads
	t.ProcessCount = procs
}

// CollapseAll sets ShowChildren=false on every row.
func (t *Table) CollapseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.byPID {
		p.ShowChildren = false
	}
}

// ExpandTree sets ShowChildren=true on every row.
func (t *Table) ExpandTree() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.byPID {
		p.ShowChildren = true
	}
}

// CollapseIntoParent implements the Backspace behavior: given the pid
// the cursor is on, it collapses that row's parent (so the cursor row
// itself disappears back into its parent's closed subtree) and returns
// the parent's pid so the caller can move the selection there. It is an
// O(N) scan, acceptable at the table sizes this targets.
func (t *Table) CollapseIntoParent(pid int32) (parentPID int32, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	child, exists := t.byPID[pid]
	if !exists {
		return 0, false
	}
	parent, exists := t.byPID[child.ParentPID]
	if !exists {
		return 0, false
	}
	parent.ShowChildren = false
	return parent.PID, true
}

// SortView rebuilds the view order: tree order if TreeView is set,
// otherwise a flat sort by the current comparator.
func (t *Table) SortView() {
	t.mu.Lock()
	defer t.mu.Unlock()

	flat := make([]*process.Process, 0, len(t.byPID))
	for _, p := range t.byPID {
		flat = append(flat, p)
	}
	sort.SliceStable(flat, func(i, j int) bool { return t.lessFn(flat[i], flat[j]) })

	if t.tree {
		t.view = buildTree(flat)
	} else {
		t.view = flat
	}
}
