// Package richstring implements the packed (codepoint, attribute) sequence
// used as the unit of styled text throughout the display framework: panel
// headers, meter captions, tree-drawn COMM columns.
//
// It plays the same role as lazydocker's plain ColoredString helpers in
// pkg/utils, generalized from "a string wrapped once in an ANSI escape" to
// "per-character attributes", which is what a tree-indent column or a
// partially-highlighted row needs.
package richstring

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Attr is a bitmask of display attributes layered on top of a foreground
// color id. It mirrors gocui.Attribute but stays independent of the
// terminal library so RichString can be unit tested without a screen.
type Attr uint32

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrUnderline
	AttrReverse
	AttrDim
)

// Cell is one styled character: a Unicode codepoint plus its attribute word.
type Cell struct {
	Rune rune
	Attr Attr
	// Color is a color.Attribute (from github.com/fatih/color) identifying
	// the foreground color id for this cell; 0 means "terminal default".
	Color color.Attribute
}

// RichString is a packed sequence of Cells with an optional highlight
// attribute applied on top of every cell when Highlighted is true (used for
// the selected row in a Panel). Reading past the end yields the zero Cell.
type RichString struct {
	cells       []Cell
	Highlight   Attr
	Highlighted bool
}

// New builds a RichString from a plain string with a single uniform style.
func New(s string, attr Attr, clr color.Attribute) RichString {
	runes := []rune(s)
	cells := make([]Cell, len(runes))
	for i, r := range runes {
		cells[i] = Cell{Rune: r, Attr: attr, Color: clr}
	}
	return RichString{cells: cells}
}

// Empty returns a zero-length RichString.
func Empty() RichString { return RichString{} }

// Len returns the number of characters (not bytes) in the string.
func (rs RichString) Len() int { return len(rs.cells) }

// At returns the cell at position i, or the zero Cell if i is out of range.
// This realizes the "reading past end yields zero" invariant.
func (rs RichString) At(i int) Cell {
	if i < 0 || i >= len(rs.cells) {
		return Cell{}
	}
	cell := rs.cells[i]
	if rs.Highlighted {
		cell.Attr |= rs.Highlight
	}
	return cell
}

// Append concatenates other onto rs and returns the result; rs is not
// mutated (RichStrings are treated as values, composed rather than
// spliced in place).
func (rs RichString) Append(other RichString) RichString {
	cells := make([]Cell, 0, len(rs.cells)+len(other.cells))
	cells = append(cells, rs.cells...)
	cells = append(cells, other.cells...)
	return RichString{cells: cells, Highlight: rs.Highlight, Highlighted: rs.Highlighted}
}

// AppendPlain appends a uniformly-styled plain string.
func (rs RichString) AppendPlain(s string, attr Attr, clr color.Attribute) RichString {
	return rs.Append(New(s, attr, clr))
}

// Slice returns the half-open range [from, to) as a new RichString, clamped
// to the string's bounds.
func (rs RichString) Slice(from, to int) RichString {
	if from < 0 {
		from = 0
	}
	if to > len(rs.cells) {
		to = len(rs.cells)
	}
	if from >= to {
		return RichString{}
	}
	cells := make([]Cell, to-from)
	copy(cells, rs.cells[from:to])
	return RichString{cells: cells, Highlight: rs.Highlight, Highlighted: rs.Highlighted}
}

// Width returns the terminal display width of the string, honouring
// double-width CJK runes via go-runewidth, same as lazydocker's
// WithPadding/Decolorise pairing in pkg/utils.
func (rs RichString) Width() int {
	w := 0
	for _, c := range rs.cells {
		w += runewidth.RuneWidth(c.Rune)
	}
	return w
}

// Plain renders the codepoints back into a Go string, discarding attributes;
// used for substring search/filter matching and type-ahead prefixing.
func (rs RichString) Plain() string {
	runes := make([]rune, len(rs.cells))
	for i, c := range rs.cells {
		runes[i] = c.Rune
	}
	return string(runes)
}

// WithHighlight returns a copy of rs with the selection highlight attribute
// applied to every cell when reading back through At.
func (rs RichString) WithHighlight(attr Attr) RichString {
	rs.Highlight = attr
	rs.Highlighted = true
	return rs
}

// Bytes renders rs into a terminal-ready ANSI-escaped line, coalescing runs
// of cells sharing the same Attr/Color into a single fatih/color span so a
// row doesn't emit one escape sequence per character.
func (rs RichString) Bytes() []byte {
	var b strings.Builder
	n := rs.Len()
	for i := 0; i < n; {
		cell := rs.At(i)
		j := i + 1
		for j < n {
			next := rs.At(j)
			if next.Attr != cell.Attr || next.Color != cell.Color {
				break
			}
			j++
		}
		run := make([]rune, 0, j-i)
		for k := i; k < j; k++ {
			run = append(run, rs.At(k).Rune)
		}
		b.WriteString(styleSpan(string(run), cell.Attr, cell.Color))
		i = j
	}
	return []byte(b.String())
}

func styleSpan(s string, attr Attr, clr color.Attribute) string {
	var attrs []color.Attribute
	if clr != 0 {
		attrs = append(attrs, clr)
	}
	if attr&AttrBold != 0 {
		attrs = append(attrs, color.Bold)
	}
	if attr&AttrUnderline != 0 {
		attrs = append(attrs, color.Underline)
	}
	if attr&AttrReverse != 0 {
		attrs = append(attrs, color.ReverseVideo)
	}
	if attr&AttrDim != 0 {
		attrs = append(attrs, color.Faint)
	}
	if len(attrs) == 0 {
		return s
	}
	return color.New(attrs...).Sprint(s)
}
