package table_test

import (
	"context"
	"testing"

	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/platform/testplatform"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFind(t *testing.T, tbl *table.Table, pid int32) *process.Process {
	t.Helper()
	p, ok := tbl.Find(pid)
	require.True(t, ok, "pid %d not found", pid)
	return p
}

// Scenario A: two-scan simulation, elapsed=1s, active_cpus=1, CLK_TCK=100.
// snapshot1={pid1 utime=100, pid2 utime=50}; snapshot2={pid1 utime=200, pid2 utime=50}.
func TestScenarioA_PercentCPU(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 100, 0),
			testplatform.Raw(2, 0, 50, 0),
		}},
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 200, 0),
			testplatform.Raw(2, 0, 50, 0),
		}},
	)

	tbl := table.New(table.ByPID)
	ms := int64(0)
	tbl.SetNowFunc(func() int64 { ms += 1000; return ms })

	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))

	p1 := mustFind(t, tbl, 1)
	p2 := mustFind(t, tbl, 2)

	assert.InDelta(t, 100.0, p1.PercentCPU, 0.01)
	assert.InDelta(t, 0.0, p2.PercentCPU, 0.01)
	assert.True(t, p1.Updated())
	assert.True(t, p2.Updated())
}

// Scenario B: after a third scan in which pid 2 disappears, the table
// contains only pid 1, and pid 2's object is gone (freed).
func TestScenarioB_Disappearance(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 100, 0),
			testplatform.Raw(2, 0, 50, 0),
		}},
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 200, 0),
			testplatform.Raw(2, 0, 50, 0),
		}},
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 250, 0),
		}},
	)

	tbl := table.New(table.ByPID)
	ms := int64(0)
	tbl.SetNowFunc(func() int64 { ms += 1000; return ms })

	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))

	_, ok := tbl.Find(2)
	assert.False(t, ok, "pid 2 should have been removed")
	p1 := mustFind(t, tbl, 1)
	assert.Equal(t, int32(1), p1.PID)
	assert.Equal(t, 1, tbl.Len())
}

// A pid reappearing after being removed is a new process: no counter
// carry-over, since identity must stay stable across a gap.
func TestReappearingPIDHasNoCounterCarryOver(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(5, 0, 900, 0)}},
		testplatform.Snapshot{Processes: []platform.RawProcess{}},
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(5, 0, 10, 0)}},
	)

	tbl := table.New(table.ByPID)
	ms := int64(0)
	tbl.SetNowFunc(func() int64 { ms += 1000; return ms })

	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))

	p := mustFind(t, tbl, 5)
	// If counters had carried over, Period would saturate to 0 from a
	// lower absolute reading; instead the fresh allocation has prev=0 so
	// period == the new absolute value.
	assert.Equal(t, uint64(10), p.Period.UserTimeTicks)
}

// Period is never negative, even when the simulated Platform reports a
// decreasing counter (saturating subtraction).
func TestPeriodNeverNegative(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(1, 0, 1000, 0)}},
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(1, 0, 10, 0)}},
	)

	tbl := table.New(table.ByPID)
	ms := int64(0)
	tbl.SetNowFunc(func() int64 { ms += 1000; return ms })

	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))

	p := mustFind(t, tbl, 1)
	assert.Equal(t, uint64(0), p.Period.UserTimeTicks)
	assert.GreaterOrEqual(t, p.PercentCPU, 0.0)
}

// percent_cpu always stays within 0 <= percent_cpu <= 100*active_cpus.
func TestPercentCPUBounds(t *testing.T) {
	plat := testplatform.New(4,
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(1, 0, 0, 0)}},
		testplatform.Snapshot{Processes: []platform.RawProcess{testplatform.Raw(1, 0, 1_000_000, 0)}},
	)
	tbl := table.New(table.ByPID)
	ms := int64(0)
	tbl.SetNowFunc(func() int64 { ms += 1000; return ms })

	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	require.NoError(t, tbl.Scan(context.Background(), plat, false))

	p := mustFind(t, tbl, 1)
	assert.GreaterOrEqual(t, p.PercentCPU, 0.0)
	assert.LessOrEqual(t, p.PercentCPU, 400.0)
}

// Scenario C: tree with pids {1->2, 1->3, 2->4}; sort_key=PID asc.
// Expected row order = [1, 2, 4, 3].
func TestScenarioC_TreeOrder(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 0, 0),
			testplatform.Raw(2, 1, 0, 0),
			testplatform.Raw(3, 1, 0, 0),
			testplatform.Raw(4, 2, 0, 0),
		}},
	)
	tbl := table.New(table.ByPID)
	tbl.SetTreeView(true)
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	tbl.SortView()

	view := tbl.View()
	var order []int32
	for _, p := range view {
		order = append(order, p.PID)
	}
	assert.Equal(t, []int32{1, 2, 4, 3}, order)

	byPID := map[int32]*process.Process{}
	for _, p := range view {
		byPID[p.PID] = p
	}
	assert.True(t, byPID[4].IsLastChild(), "4 is the only (last) child of 2")
	assert.False(t, byPID[2].IsLastChild(), "2 has a later sibling (3)")
	assert.True(t, byPID[3].IsLastChild(), "3 is the last child of 1")
}

// Tree closure: every row whose parent is present appears strictly
// after that parent, and the indent level equals depth.
func TestTreeClosure(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 0, 0),
			testplatform.Raw(2, 1, 0, 0),
			testplatform.Raw(3, 2, 0, 0),
			testplatform.Raw(99, 42, 0, 0), // dangling parent: orphan
		}},
	)
	tbl := table.New(table.ByPID)
	tbl.SetTreeView(true)
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	tbl.SortView()

	view := tbl.View()
	pos := map[int32]int{}
	for i, p := range view {
		pos[p.PID] = i
	}

	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[2], pos[3])
	assert.Equal(t, 0, byPID(view, 1).Depth())
	assert.Equal(t, 1, byPID(view, 2).Depth())
	assert.Equal(t, 2, byPID(view, 3).Depth())

	// Orphan with a dangling parent still appears (never lost).
	_, found := pos[99]
	assert.True(t, found)
}

func byPID(view []*process.Process, pid int32) *process.Process {
	for _, p := range view {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

// Collapse-into-parent (Backspace): collapsing a child's parent hides the
// child's subtree on the next SortView but leaves the parent visible.
func TestCollapseIntoParent(t *testing.T) {
	plat := testplatform.New(1,
		testplatform.Snapshot{Processes: []platform.RawProcess{
			testplatform.Raw(1, 0, 0, 0),
			testplatform.Raw(2, 1, 0, 0),
			testplatform.Raw(3, 2, 0, 0),
		}},
	)
	tbl := table.New(table.ByPID)
	tbl.SetTreeView(true)
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	tbl.SortView()

	parentPID, ok := tbl.CollapseIntoParent(3)
	require.True(t, ok)
	assert.Equal(t, int32(2), parentPID)

	tbl.SortView()
	view := tbl.View()
	var order []int32
	for _, p := range view {
		order = append(order, p.PID)
	}
	assert.Equal(t, []int32{1, 2}, order, "3 is hidden behind its collapsed parent")
}
