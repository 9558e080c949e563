package mainpanel_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/mainpanel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/stretchr/testify/assert"
)

func TestHandleKeyMovesCursorOnNavigation(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Panel.SetCursor(0)

	result, synth := m.HandleKey('j')
	assert.Equal(t, screen.ResultHandled, result)
	assert.Equal(t, rune(0), synth)
	assert.Equal(t, 1, m.Panel.Cursor())

	result, _ = m.HandleKey(platform.KeyUp)
	assert.Equal(t, screen.ResultHandled, result)
	assert.Equal(t, 0, m.Panel.Cursor())
}

func TestHandleKeyHomeAndEnd(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	m.HandleKey(platform.KeyEnd)
	assert.Equal(t, m.Panel.Len()-1, m.Panel.Cursor())

	m.HandleKey(platform.KeyHome)
	assert.Equal(t, 0, m.Panel.Cursor())
}

func TestHandleKeyQuitTranslatesToBreakLoop(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	result, _ := m.HandleKey('q')
	assert.Equal(t, screen.ResultBreakLoop, result)
}

func TestHandleKeyTreeToggleTranslatesToRescan(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	result, _ := m.HandleKey('t')
	assert.Equal(t, screen.ResultRescan, result)
}

func TestHandleKeyTagTranslatesToRedraw(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()
	m.Panel.SetCursor(0)

	result, _ := m.HandleKey(' ')
	assert.Equal(t, screen.ResultRedraw, result)
}

func TestHandleKeyUnboundTranslatesToHandled(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	result, _ := m.HandleKey('z')
	assert.Equal(t, screen.ResultHandled, result)
}

func TestDrawRendersHeaderAndRowsAsBytes(t *testing.T) {
	tbl := buildTable(t)
	m := mainpanel.New(tbl, 10, &fakeSignaler{})
	m.Refresh()

	rows := m.Draw(40)
	wantLen := m.Panel.Len() + 1
	assert.Len(t, rows, wantLen)
	for _, row := range rows {
		assert.NotNil(t, row)
	}
}

var _ screen.Stackable = (*mainpanel.MainPanel)(nil)
