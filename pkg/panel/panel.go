// Package panel implements a generic scrollable, keyable Panel over a
// slice of rows, plus the bounded FilteredList it borrows its
// item storage contract from. It generalizes lazydocker's
// pkg/gui/panels.ListPanel[T]/SideListPanel[T] (gocui-View-coupled cursor
// and scroll arithmetic) into a terminal-library-agnostic core that the
// screen package later wires to a gocui.View or any other TerminalSurface.
package panel

import (
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/utils"
)

// Result is what on_key returns to the owning ScreenManager loop, mirroring
// htop's Action return codes (original_source/Action.h).
type Result int

const (
	ResultHandled Result = iota
	ResultIgnored
	ResultBreakLoop
	ResultRefresh
	ResultRedraw
	ResultRescan
	ResultResize
	ResultSynthKey
)

// KeyHandler reacts to one key press and reports what the ScreenManager
// should do next. ch is the synthesized rune for ResultSynthKey re-delivery.
type KeyHandler func(key rune) (Result, rune)

// Row is anything a Panel can draw: exactly one header-width RichString.
type Row interface {
	Render(width int) richstring.RichString
}

// Panel is the scrollable list core: header, rows, cursor, scroll offset,
// and an optional type-ahead buffer, independent of any terminal library.
type Panel[T Row] struct {
	Header richstring.RichString

	rows []T

	cursor     int
	scrollTop  int
	pageHeight int

	// typeAhead accumulates digits/letters typed while the panel has focus,
	// for incremental selection (e.g. jump-to-pid); capped at 99 characters.
	typeAhead string

	OnKey KeyHandler

	// FunctionBar labels, one per F1-F10 slot; empty string hides that slot.
	FunctionBar [10]string
}

const maxTypeAhead = 99

// New builds an empty Panel with the given visible page height.
func New[T Row](pageHeight int) *Panel[T] {
	if pageHeight < 1 {
		pageHeight = 1
	}
	return &Panel[T]{pageHeight: pageHeight}
}

// SetRows replaces the row set and clamps the cursor/scroll into range.
func (p *Panel[T]) SetRows(rows []T) {
	p.rows = rows
	p.clamp()
}

// Rows returns the current row slice (borrowed, not a copy).
func (p *Panel[T]) Rows() []T { return p.rows }

// Len reports the number of rows currently in the panel.
func (p *Panel[T]) Len() int { return len(p.rows) }

// SetPageHeight resizes the visible window (e.g. on a terminal resize) and
// re-clamps scroll/cursor.
func (p *Panel[T]) SetPageHeight(h int) {
	if h < 1 {
		h = 1
	}
	p.pageHeight = h
	p.clamp()
}

// Cursor returns the currently selected row index.
func (p *Panel[T]) Cursor() int { return p.cursor }

// ScrollTop returns the index of the first visible row.
func (p *Panel[T]) ScrollTop() int { return p.scrollTop }

// Selected returns the currently selected row, or the zero value and false
// if the panel is empty.
func (p *Panel[T]) Selected() (T, bool) {
	var zero T
	if len(p.rows) == 0 {
		return zero, false
	}
	return p.rows[p.cursor], true
}

func (p *Panel[T]) clamp() {
	p.cursor = utils.Clamp(p.cursor, 0, maxIndex(len(p.rows)))
	p.scrollTop = utils.Clamp(p.scrollTop, 0, maxIndex(len(p.rows)))
	p.fixScrollToCursor()
}

func maxIndex(n int) int {
	if n == 0 {
		return 0
	}
	return n - 1
}

// fixScrollToCursor keeps the cursor within [scrollTop, scrollTop+pageHeight).
func (p *Panel[T]) fixScrollToCursor() {
	if p.cursor < p.scrollTop {
		p.scrollTop = p.cursor
	}
	if p.cursor >= p.scrollTop+p.pageHeight {
		p.scrollTop = p.cursor - p.pageHeight + 1
	}
	if p.scrollTop < 0 {
		p.scrollTop = 0
	}
}

// MoveCursor moves the selection by delta rows, clamping at the ends: the
// cursor never leaves [0, len-1].
func (p *Panel[T]) MoveCursor(delta int) {
	if len(p.rows) == 0 {
		return
	}
	p.cursor = utils.Clamp(p.cursor+delta, 0, len(p.rows)-1)
	p.fixScrollToCursor()
}

// SetCursor jumps directly to index i, clamped.
func (p *Panel[T]) SetCursor(i int) {
	if len(p.rows) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = utils.Clamp(i, 0, len(p.rows)-1)
	p.fixScrollToCursor()
}

// PageUp/PageDown/Home/End mirror htop's scroll keys.
func (p *Panel[T]) PageUp()   { p.MoveCursor(-p.pageHeight) }
func (p *Panel[T]) PageDown() { p.MoveCursor(p.pageHeight) }
func (p *Panel[T]) Home()     { p.SetCursor(0) }
func (p *Panel[T]) End()      { p.SetCursor(len(p.rows) - 1) }

// Visible returns the rows currently within the scroll window.
func (p *Panel[T]) Visible() []T {
	if len(p.rows) == 0 {
		return nil
	}
	end := p.scrollTop + p.pageHeight
	if end > len(p.rows) {
		end = len(p.rows)
	}
	return p.rows[p.scrollTop:end]
}

// Draw renders the header followed by every currently visible row, each
// truncated/padded to width.
func (p *Panel[T]) Draw(width int) []richstring.RichString {
	out := make([]richstring.RichString, 0, p.pageHeight+1)
	out = append(out, p.Header)
	for i, row := range p.Visible() {
		rs := row.Render(width)
		if p.scrollTop+i == p.cursor {
			rs = rs.WithHighlight(richstring.AttrReverse)
		}
		out = append(out, rs)
	}
	return out
}

// TypeAhead returns the current accumulated type-ahead buffer.
func (p *Panel[T]) TypeAhead() string { return p.typeAhead }

// AppendTypeAhead adds one rune to the type-ahead buffer, dropping input
// once the buffer reaches maxTypeAhead characters.
func (p *Panel[T]) AppendTypeAhead(r rune) {
	if len(p.typeAhead) >= maxTypeAhead {
		return
	}
	p.typeAhead += string(r)
}

// ResetTypeAhead clears the type-ahead buffer (Escape, or focus change).
func (p *Panel[T]) ResetTypeAhead() { p.typeAhead = "" }

// HandleKey dispatches key to OnKey if set, otherwise reports Ignored.
func (p *Panel[T]) HandleKey(key rune) (Result, rune) {
	if p.OnKey == nil {
		return ResultIgnored, 0
	}
	return p.OnKey(key)
}
