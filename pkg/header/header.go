// Package header implements the header band: a fixed-height band of
// Meters arranged into a configurable number of columns, refreshed once per
// scan. It generalizes lazydocker's summary strip in pkg/gui/status_panel.go
// (one line of aggregate docker/podman counts) into a multi-column meter
// grid.
package header

import (
	"github.com/ncruces/proctop/pkg/meter"
	"github.com/ncruces/proctop/pkg/richstring"
)

// Column is one vertical stack of meters within the header.
type Column struct {
	Meters []*meter.Meter
}

// Header lays out its Columns left to right, each column's meters stacked
// top to bottom, and exposes a Draw that emits one RichString per output
// row.
type Header struct {
	Columns []*Column
}

// New builds an empty Header with n columns.
func New(columns int) *Header {
	h := &Header{Columns: make([]*Column, columns)}
	for i := range h.Columns {
		h.Columns[i] = &Column{}
	}
	return h
}

// AddMeter appends a meter to the given column (clamped to a valid index).
func (h *Header) AddMeter(column int, m *meter.Meter) {
	if column < 0 {
		column = 0
	}
	if column >= len(h.Columns) {
		column = len(h.Columns) - 1
	}
	h.Columns[column].Meters = append(h.Columns[column].Meters, m)
}

// Update refreshes every meter's values from the current scan.
func (h *Header) Update() {
	for _, col := range h.Columns {
		for _, m := range col.Meters {
			m.Update()
		}
	}
}

// Height returns the number of meter rows the tallest column needs; a Graph
// or LED meter can span more than one text row, but the header still
// allocates one slot per meter for Bar/Text/LED meters stacked vertically.
func (h *Header) Height() int {
	max := 0
	for _, col := range h.Columns {
		if len(col.Meters) > max {
			max = len(col.Meters)
		}
	}
	return max
}

// Draw renders the header into row-major RichStrings, one per meter row,
// with each column's text padded to columnWidth and concatenated left to
// right. Graph/LED meters that emit embedded newlines occupy the row they
// were placed in; wrapping to additional physical terminal rows is the
// caller's (Panel/ScreenManager) responsibility.
func (h *Header) Draw(columnWidth int) []richstring.RichString {
	rows := h.Height()
	out := make([]richstring.RichString, rows)
	for r := 0; r < rows; r++ {
		line := richstring.Empty()
		for _, col := range h.Columns {
			if r < len(col.Meters) {
				line = line.Append(col.Meters[r].Render(columnWidth))
			} else {
				line = line.AppendPlain(pad(columnWidth), richstring.AttrNone, 0)
			}
		}
		out[r] = line
	}
	return out
}

func pad(width int) string {
	if width < 0 {
		width = 0
	}
	b := make([]byte, width)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// SetColumnCount resizes the header to n columns, redistributing existing
// meters round-robin across the new column count (the setup screen's
// "Columns" option changes this at runtime).
func (h *Header) SetColumnCount(n int) {
	if n < 1 {
		n = 1
	}
	var all []*meter.Meter
	for _, col := range h.Columns {
		all = append(all, col.Meters...)
	}
	h.Columns = make([]*Column, n)
	for i := range h.Columns {
		h.Columns[i] = &Column{}
	}
	for i, m := range all {
		h.Columns[i%n].Meters = append(h.Columns[i%n].Meters, m)
	}
}
