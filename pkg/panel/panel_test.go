package panel_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/stretchr/testify/assert"
)

type row int

func (r row) Render(width int) richstring.RichString {
	return richstring.New("row", richstring.AttrNone, 0)
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row(i)
	}
	return out
}

func TestCursorClampsToBounds(t *testing.T) {
	p := panel.New[row](5)
	p.SetRows(rows(3))
	p.MoveCursor(-10)
	assert.Equal(t, 0, p.Cursor())
	p.MoveCursor(100)
	assert.Equal(t, 2, p.Cursor())
}

func TestEmptyPanelCursorStaysZero(t *testing.T) {
	p := panel.New[row](5)
	p.MoveCursor(5)
	assert.Equal(t, 0, p.Cursor())
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestScrollFollowsCursorPastPageHeight(t *testing.T) {
	p := panel.New[row](3)
	p.SetRows(rows(10))
	p.SetCursor(7)
	assert.Equal(t, 7, p.Cursor())
	assert.LessOrEqual(t, p.ScrollTop(), 7)
	assert.Greater(t, p.ScrollTop()+3, 7)
}

func TestPageDownAdvancesByPageHeight(t *testing.T) {
	p := panel.New[row](4)
	p.SetRows(rows(20))
	p.PageDown()
	assert.Equal(t, 4, p.Cursor())
}

func TestHomeAndEnd(t *testing.T) {
	p := panel.New[row](4)
	p.SetRows(rows(20))
	p.End()
	assert.Equal(t, 19, p.Cursor())
	p.Home()
	assert.Equal(t, 0, p.Cursor())
}

func TestTypeAheadCapsAt99Chars(t *testing.T) {
	p := panel.New[row](4)
	for i := 0; i < 150; i++ {
		p.AppendTypeAhead('1')
	}
	assert.Len(t, p.TypeAhead(), 99)
}

func TestTypeAheadResets(t *testing.T) {
	p := panel.New[row](4)
	p.AppendTypeAhead('5')
	p.ResetTypeAhead()
	assert.Equal(t, "", p.TypeAhead())
}

func TestVisibleNeverExceedsPageHeight(t *testing.T) {
	p := panel.New[row](3)
	p.SetRows(rows(10))
	p.SetCursor(9)
	assert.LessOrEqual(t, len(p.Visible()), 3)
}

func TestHandleKeyIgnoredWithoutHandler(t *testing.T) {
	p := panel.New[row](3)
	result, _ := p.HandleKey('q')
	assert.Equal(t, panel.ResultIgnored, result)
}

func TestHandleKeyDispatchesToOnKey(t *testing.T) {
	p := panel.New[row](3)
	p.OnKey = func(key rune) (panel.Result, rune) {
		if key == 'q' {
			return panel.ResultBreakLoop, 0
		}
		return panel.ResultIgnored, 0
	}
	result, _ := p.HandleKey('q')
	assert.Equal(t, panel.ResultBreakLoop, result)
}

func TestResizeReclampsScroll(t *testing.T) {
	p := panel.New[row](10)
	p.SetRows(rows(20))
	p.SetCursor(15)
	p.SetPageHeight(3)
	assert.LessOrEqual(t, p.ScrollTop(), 15)
	assert.Greater(t, p.ScrollTop()+3, 15)
}
