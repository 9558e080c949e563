// Package mainpanel implements the action dispatch table and the primary
// process Panel: a bound keymap over a panel.Panel[Row] that can open a
// modal sub-screen through RequestPush/TakePush (pkg/app opens the setup
// screen this way). No signal or I/O-priority picker is bound.
//
// It generalizes lazydocker's pkg/gui/containers_panel.go (one
// SideListPanel[*commands.Container] plus a custom-commands menu) and
// pkg/gui/keybindings.go (a big static keybindings table mapping runes to
// handler methods) from "act on a docker container" to "act on a pid",
// replacing gocui keybinding registration with a flat key->Reaction
// dispatch table so it stays terminal-library agnostic.
package mainpanel

import (
	"context"
	"fmt"

	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/ncruces/proctop/pkg/table"
)

// Row wraps *process.Process to satisfy panel.Row; rendering lives in
// presentation.go to keep richstring formatting separate from dispatch.
type Row struct {
	*process.Process
}

func wrapRows(procs []*process.Process) []Row {
	rows := make([]Row, len(procs))
	for i, p := range procs {
		rows[i] = Row{p}
	}
	return rows
}

// Reaction is the bitset an Action returns, mirroring htop's Action
// return-code convention (original_source/Action.h's OK/REFRESH/
// RECALCULATE/... flags).
type Reaction int

const (
	ReactionOK             Reaction = 0
	ReactionRefresh        Reaction = 1 << iota
	ReactionRecalculate
	ReactionSaveSettings
	ReactionKeepFollowing
	ReactionQuit
	ReactionRedrawBar
	ReactionUpdatePanelHdr
	ReactionResize
)

// Has reports whether flag is set in r.
func (r Reaction) Has(flag Reaction) bool { return r&flag != 0 }

// Signaler is the subset of process-action capability MainPanel needs;
// implemented by pkg/osaction against the real OS, and fakeable in tests.
type Signaler interface {
	Signal(pid int32, signal int) error
	Renice(pid int32, delta int) error
	SetIOPriority(pid int32, class process.IOPriorityClass, level int) error
	SetAffinityMask(pid int32, cpus []int) error
}

// Action is one key handler: it mutates state and reports a Reaction.
type Action func(m *MainPanel) Reaction

// MainPanel is the primary process list plus its action dispatch table.
type MainPanel struct {
	Table    *table.Table
	Panel    *panel.Panel[Row]
	Signaler Signaler

	Readonly bool

	// Tagged holds pids the operator tagged with space; bulk actions apply
	// to this set, falling back to the selected row if empty.
	Tagged map[int32]bool

	// Following pins the visible selection to a pid across sort/tree
	// rebuilds (key F).
	Following   bool
	FollowedPID int32

	actions map[rune]Action

	// lastError is surfaced by the caller as an "action-refused" beep, not
	// a modal dialog.
	lastError error

	// pendingPush is consumed by screen.Manager via TakePush once per key
	// dispatch, opening a modal sub-screen (such as setup) without
	// MainPanel holding a reference back to the Manager it's pushed onto.
	pendingPush screen.Stackable
}

// RequestPush arms a Stackable to be pushed onto the owning Manager's
// stack the next time it consumes this dispatch, for use inside a bound
// Action (e.g. the Setup key opening pkg/setup.CategoriesPanel).
func (m *MainPanel) RequestPush(s screen.Stackable) { m.pendingPush = s }

// TakePush implements screen.Pusher.
func (m *MainPanel) TakePush() screen.Stackable {
	s := m.pendingPush
	m.pendingPush = nil
	return s
}

// New builds a MainPanel bound to tbl, wiring the default keymap.
func New(tbl *table.Table, pageHeight int, signaler Signaler) *MainPanel {
	m := &MainPanel{
		Table:    tbl,
		Panel:    panel.New[Row](pageHeight),
		Signaler: signaler,
		Tagged:   map[int32]bool{},
		actions:  map[rune]Action{},
	}
	m.bindDefaultActions()
	return m
}

// SelectedPIDs returns the tagged set, or the single selected pid if
// nothing is tagged.
func (m *MainPanel) SelectedPIDs() []int32 {
	if len(m.Tagged) > 0 {
		out := make([]int32, 0, len(m.Tagged))
		for pid := range m.Tagged {
			out = append(out, pid)
		}
		return out
	}
	if p, ok := m.Panel.Selected(); ok {
		return []int32{p.PID}
	}
	return nil
}

// Bind registers or replaces the action for a key.
func (m *MainPanel) Bind(key rune, action Action) { m.actions[key] = action }

// Dispatch looks up key in the action table and runs it.
func (m *MainPanel) Dispatch(key rune) Reaction {
	action, ok := m.actions[key]
	if !ok {
		return ReactionOK
	}
	reaction := action(m)
	if !reaction.Has(ReactionKeepFollowing) {
		m.Following = false
	}
	return reaction
}

// Refresh re-pulls the table's current view into the Panel, preserving
// the Follow pid across the rebuild if set.
func (m *MainPanel) Refresh() {
	view := m.Table.View()
	rows := wrapRows(view)
	followIdx := -1
	for i, p := range view {
		if m.Following && p.PID == m.FollowedPID {
			followIdx = i
		}
	}
	cursorPID := int32(-1)
	if p, ok := m.Panel.Selected(); ok {
		cursorPID = p.PID
	}
	m.Panel.SetRows(rows)
	if followIdx >= 0 {
		m.Panel.SetCursor(followIdx)
		return
	}
	if cursorPID >= 0 {
		for i, p := range view {
			if p.PID == cursorPID {
				m.Panel.SetCursor(i)
				return
			}
		}
	}
}

func (m *MainPanel) bindDefaultActions() {
	m.Bind('F', func(m *MainPanel) Reaction {
		if p, ok := m.Panel.Selected(); ok {
			m.Following = true
			m.FollowedPID = p.PID
		}
		return ReactionKeepFollowing
	})
	m.Bind(' ', func(m *MainPanel) Reaction {
		if p, ok := m.Panel.Selected(); ok {
			if m.Tagged[p.PID] {
				delete(m.Tagged, p.PID)
			} else {
				m.Tagged[p.PID] = true
			}
			p.Tag = !p.Tag
		}
		return ReactionRedrawBar
	})
	m.Bind('t', func(m *MainPanel) Reaction {
		m.Table.SetTreeView(!m.Table.TreeView())
		return ReactionRecalculate | ReactionSaveSettings
	})
	m.Bind('q', func(m *MainPanel) Reaction { return ReactionQuit })
	m.Bind('H', func(m *MainPanel) Reaction {
		return ReactionRecalculate
	})
	m.Bind(0x08 /* Backspace */, func(m *MainPanel) Reaction {
		p, ok := m.Panel.Selected()
		if !ok {
			return ReactionOK
		}
		if parent, ok := m.Table.CollapseIntoParent(p.PID); ok {
			m.Table.SortView()
			m.Refresh()
			for i, row := range m.Panel.Rows() {
				if row.PID == parent {
					m.Panel.SetCursor(i)
					break
				}
			}
		}
		return ReactionRecalculate
	})
}

// Kill sends signal to every selected pid; a readonly session refuses with
// no modal dialog.
func (m *MainPanel) Kill(ctx context.Context, signalNum int) Reaction {
	if m.Readonly {
		m.lastError = fmt.Errorf("readonly mode: signal refused")
		return ReactionOK
	}
	var firstErr error
	for _, pid := range m.SelectedPIDs() {
		if err := m.Signaler.Signal(pid, signalNum); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.lastError = firstErr
	return ReactionRefresh
}

// Renice adjusts niceness by delta for every selected pid.
func (m *MainPanel) Renice(delta int) Reaction {
	if m.Readonly {
		m.lastError = fmt.Errorf("readonly mode: renice refused")
		return ReactionOK
	}
	var firstErr error
	for _, pid := range m.SelectedPIDs() {
		if err := m.Signaler.Renice(pid, delta); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.lastError = firstErr
	return ReactionRefresh
}

// LastError returns the most recent action's error, if any.
func (m *MainPanel) LastError() error { return m.lastError }
