package richstring_test

import (
	"testing"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/stretchr/testify/assert"
)

// Property 7: RichString round-trip — writing then reading per-character
// attributes preserves both codepoints and attributes.
func TestRoundTrip(t *testing.T) {
	rs := richstring.New("hi", richstring.AttrBold, color.FgGreen)
	rs = rs.AppendPlain("!", richstring.AttrUnderline, color.FgRed)

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, richstring.Cell{Rune: 'h', Attr: richstring.AttrBold, Color: color.FgGreen}, rs.At(0))
	assert.Equal(t, richstring.Cell{Rune: 'i', Attr: richstring.AttrBold, Color: color.FgGreen}, rs.At(1))
	assert.Equal(t, richstring.Cell{Rune: '!', Attr: richstring.AttrUnderline, Color: color.FgRed}, rs.At(2))
	assert.Equal(t, "hi!", rs.Plain())
}

func TestReadPastEndYieldsZero(t *testing.T) {
	rs := richstring.New("x", richstring.AttrNone, color.FgWhite)
	assert.Equal(t, richstring.Cell{}, rs.At(5))
	assert.Equal(t, richstring.Cell{}, rs.At(-1))
}

func TestHighlightAppliesOnRead(t *testing.T) {
	rs := richstring.New("ab", richstring.AttrNone, color.FgWhite).WithHighlight(richstring.AttrReverse)
	assert.Equal(t, richstring.AttrReverse, rs.At(0).Attr)
	assert.Equal(t, richstring.AttrReverse, rs.At(1).Attr)
}

func TestWidthCountsRunesNotBytes(t *testing.T) {
	rs := richstring.New("日本語", richstring.AttrNone, color.FgWhite)
	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, 6, rs.Width()) // each CJK glyph is double-width
}
