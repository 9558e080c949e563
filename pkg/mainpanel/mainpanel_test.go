package mainpanel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ncruces/proctop/pkg/mainpanel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/platform/testplatform"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSignaler struct {
	signaled []int32
	err      error
}

func (f *fakeSignaler) Signal(pid int32, signal int) error {
	f.signaled = append(f.signaled, pid)
	return f.err
}
func (f *fakeSignaler) Renice(pid int32, delta int) error                               { return f.err }
func (f *fakeSignaler) SetIOPriority(pid int32, class process.IOPriorityClass, level int) error {
	return f.err
}
func (f *fakeSignaler) SetAffinityMask(pid int32, cpus []int) error { return f.err }

func buildTable(t *testing.T) *table.Table {
	t.Helper()
	plat := testplatform.New(1, testplatform.Snapshot{Processes: []platform.RawProcess{
		testplatform.Raw(1, 0, 0, 0),
		testplatform.Raw(2, 1, 0, 0),
		testplatform.Raw(3, 1, 0, 0),
	}})
	tbl := table.New(table.ByPID)
	require.NoError(t, tbl.Scan(context.Background(), plat, false))
	tbl.SortView()
	return tbl
}

func TestRefreshPopulatesPanelFromTableView(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	assert.Equal(t, 3, m.Panel.Len())
}

func TestSelectedPIDsFallsBackToCursorWhenNothingTagged(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Panel.SetCursor(1)

	pids := m.SelectedPIDs()
	require.Len(t, pids, 1)
	assert.Equal(t, int32(2), pids[0])
}

func TestSelectedPIDsReturnsTaggedSetWhenNonEmpty(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Tagged[int32(1)] = true
	m.Tagged[int32(3)] = true

	pids := m.SelectedPIDs()
	assert.ElementsMatch(t, []int32{1, 3}, pids)
}

func TestKillRefusedInReadonlyMode(t *testing.T) {
	tbl := buildTable(t)
	sig := &fakeSignaler{}
	m := mainpanel.New(tbl, 10, sig)
	m.Refresh()
	m.Readonly = true

	m.Kill(context.Background(), 9)
	assert.Empty(t, sig.signaled)
	require.Error(t, m.LastError())
}

func TestKillSignalsEverySelectedPID(t *testing.T) {
	tbl := buildTable(t)
	sig := &fakeSignaler{}
	m := mainpanel.New(tbl, 10, sig)
	m.Refresh()
	m.Tagged[int32(2)] = true
	m.Tagged[int32(3)] = true

	m.Kill(context.Background(), 15)
	assert.ElementsMatch(t, []int32{2, 3}, sig.signaled)
}

func TestKillSurfacesFirstSignalerError(t *testing.T) {
	tbl := buildTable(t)
	sig := &fakeSignaler{err: errors.New("no such process")}
	m := mainpanel.New(tbl, 10, sig)
	m.Refresh()

	m.Kill(context.Background(), 9)
	require.Error(t, m.LastError())
}

func TestSpaceKeyTogglesTag(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Panel.SetCursor(0)

	m.Dispatch(' ')
	assert.Len(t, m.Tagged, 1)

	m.Dispatch(' ')
	assert.Empty(t, m.Tagged)
}

func TestTKeyTogglesTreeView(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	assert.False(t, tbl.TreeView())
	m.Dispatch('t')
	assert.True(t, tbl.TreeView())
}

func TestFollowKeyPinsSelectionAcrossRefresh(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Panel.SetCursor(2) // pid 3

	m.Dispatch('F')
	assert.True(t, m.Following)
	assert.Equal(t, int32(3), m.FollowedPID)

	m.Panel.SetCursor(0)
	m.Refresh()
	p, ok := m.Panel.Selected()
	require.True(t, ok)
	assert.Equal(t, int32(3), p.PID)
}

func TestUnboundKeyIsNoop(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	assert.Equal(t, mainpanel.ReactionOK, m.Dispatch('z'))
}
