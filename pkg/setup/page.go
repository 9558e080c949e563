// Package setup implements the live configuration screen: a
// CategoriesPanel listing configuration categories down the left side,
// each driving a body page drawn to its right, mirroring
// original_source/CategoriesPanel.c's category-list-plus-swapped-page
// layout (Display options / Columns / Meters / Colors) but composited
// into a single screen.Stackable instead of CategoriesPanel.c's
// ScreenManager_add/ScreenManager_remove side-by-side panel churn, since
// this module's ScreenManager is a push/pop stack rather than htop's
// resizable side-by-side column layout. Every list in this package,
// including the category list itself, is a pkg/panel.Panel instance
// rather than a hand-rolled cursor, the same list primitive the main
// process table uses.
package setup

import (
	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
)

// page is one category's body: Display options, Columns, Meters, or
// Colors, each a small self-contained keyable list.
type page interface {
	title() string
	handleKey(key rune) screen.Result
	draw(width, height int) []richstring.RichString
	functionBar() *functionbar.Bar
}

// padTo right-pads rs with plain spaces until it fills width, or slices it
// down to width if it's already longer; Draw implementations use this to
// keep every row in a two-column layout the same cell width regardless of
// content length.
func padTo(rs richstring.RichString, width int) richstring.RichString {
	w := rs.Width()
	if w >= width {
		return rs.Slice(0, width)
	}
	return rs.AppendPlain(spaces(width-w), richstring.AttrNone, 0)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
