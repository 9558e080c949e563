package screen_test

import (
	"context"
	"testing"

	"github.com/ncruces/proctop/pkg/header"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/platform/testplatform"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/ncruces/proctop/pkg/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	events []platform.Event
	idx    int
}

func (f *fakeSurface) Size() (int, int) { return 80, 24 }
func (f *fakeSurface) SetCell(x, y int, r rune, attr uint32) {}
func (f *fakeSurface) Flush() error { return nil }
func (f *fakeSurface) ReadEvent(timeoutMs int) (platform.Event, bool) {
	if f.idx >= len(f.events) {
		return platform.Event{}, false
	}
	ev := f.events[f.idx]
	f.idx++
	return ev, true
}

type quittingStack struct{}

func (quittingStack) HandleKey(key rune) (screen.Result, rune) {
	if key == 'q' {
		return screen.ResultBreakLoop, 0
	}
	return screen.ResultIgnored, 0
}
func (quittingStack) Draw(width int) [][]byte { return nil }

func TestRunExitsOnBreakLoopWithSingleStackEntry(t *testing.T) {
	surface := &fakeSurface{events: []platform.Event{{Kind: platform.EventKey, Key: 'q'}}}
	plat := testplatform.New(1, testplatform.Snapshot{})
	tbl := table.New(table.ByPID)
	hdr := header.New(1)

	m := screen.New(logrus.NewEntry(logrus.New()), surface, plat, tbl, hdr)
	m.Push(quittingStack{})

	err := m.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Quit)
}

func TestRunPopsNestedStackOnBreakLoop(t *testing.T) {
	surface := &fakeSurface{events: []platform.Event{
		{Kind: platform.EventKey, Key: 'q'},
		{Kind: platform.EventKey, Key: 'q'},
	}}
	plat := testplatform.New(1, testplatform.Snapshot{})
	tbl := table.New(table.ByPID)
	hdr := header.New(1)

	m := screen.New(logrus.NewEntry(logrus.New()), surface, plat, tbl, hdr)
	m.Push(quittingStack{})
	m.Push(quittingStack{})

	err := m.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Quit)
}

type pushingStack struct {
	pending screen.Stackable
}

func (p *pushingStack) HandleKey(key rune) (screen.Result, rune) {
	switch key {
	case 'o':
		p.pending = quittingStack{}
		return screen.ResultHandled, 0
	case 'q':
		return screen.ResultBreakLoop, 0
	}
	return screen.ResultIgnored, 0
}
func (p *pushingStack) Draw(width int) [][]byte { return nil }
func (p *pushingStack) TakePush() screen.Stackable {
	s := p.pending
	p.pending = nil
	return s
}

func TestDispatchKeyConsumesPendingPush(t *testing.T) {
	surface := &fakeSurface{events: []platform.Event{
		{Kind: platform.EventKey, Key: 'o'},
		{Kind: platform.EventKey, Key: 'q'},
		{Kind: platform.EventKey, Key: 'q'},
	}}
	plat := testplatform.New(1, testplatform.Snapshot{})
	tbl := table.New(table.ByPID)
	hdr := header.New(1)

	m := screen.New(logrus.NewEntry(logrus.New()), surface, plat, tbl, hdr)
	base := &pushingStack{}
	m.Push(base)

	err := m.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Quit)
}

func TestIdleSafetyBreakStopsAfter100EmptyPolls(t *testing.T) {
	surface := &fakeSurface{}
	plat := testplatform.New(1, testplatform.Snapshot{})
	tbl := table.New(table.ByPID)
	hdr := header.New(1)

	m := screen.New(logrus.NewEntry(logrus.New()), surface, plat, tbl, hdr)
	m.Push(quittingStack{})

	err := m.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, m.Quit, "idle break exits without setting Quit")
}
