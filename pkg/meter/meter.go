// Package meter implements header meters: a single metric with a
// selectable render mode (Bar/Text/Graph/LED) and a typed value vector.
// It generalizes lazydocker's container-stats graphing
// (pkg/gui/presentation/container_stats.go, which sparklines CPU% with
// jesseduffield/asciigraph) from "one docker container's CPU history" to
// "any bounded slice of typed metric values with a pluggable renderer".
package meter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jesseduffield/asciigraph"
	"github.com/ncruces/proctop/pkg/richstring"
)

// Mode selects how a Meter draws its current Values.
type Mode int

const (
	ModeBar Mode = iota
	ModeText
	ModeGraph
	ModeLED
)

// MaxItems bounds the size of a Meter's value vector.
const MaxItems = 10

// Class describes one kind of meter: how many value slots it has, the
// palette used to color each slice, and the hooks a concrete meter
// supplies.
type Class struct {
	Name      string
	MaxItems  int
	Caption   string
	Palette   []color.Attribute
	// SupportedModes lists the Modes this class accepts; Graph
	// additionally requires MaxItems == 1.
	SupportedModes []Mode
	// Update is called once per scan (or pause-scan) to refresh Values and
	// Total from whatever the Platform last reported.
	Update func(m *Meter) error
}

// Meter is one instance of a Class: an instance parameter (e.g. which
// CPU), current mode, values, total, and graph history ring buffer.
type Meter struct {
	Class *Class
	Param int

	Mode Mode

	Values []float64
	Total  float64

	// graphHistory keeps every sample until SetGraphWidth sets graphCap;
	// from then on it holds at most graphCap (two per column) samples.
	graphHistory []float64
	graphCap     int

	// Err holds the last error update() returned; a non-nil Err means this
	// meter renders "<label> N/A" regardless of Mode.
	Err error
}

// New builds a Meter of the given class with Bar as the default mode,
// unless the class doesn't support Bar in which case the first supported
// mode is used.
func New(class *Class, param int) *Meter {
	m := &Meter{Class: class, Param: param, Mode: ModeBar}
	if !class.supports(ModeBar) && len(class.SupportedModes) > 0 {
		m.Mode = class.SupportedModes[0]
	}
	return m
}

func (c *Class) supports(mode Mode) bool {
	for _, m := range c.SupportedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// SetMode changes the render mode, refusing Graph for a multi-value
// class (Graph requires a scalar metric).
func (m *Meter) SetMode(mode Mode) error {
	if mode == ModeGraph && (m.Class.MaxItems > 1 || len(m.Values) > 1) {
		return fmt.Errorf("meter %s: graph mode requires a scalar metric", m.Class.Name)
	}
	if !m.Class.supports(mode) {
		return fmt.Errorf("meter %s: mode not supported", m.Class.Name)
	}
	m.Mode = mode
	return nil
}

// Update refreshes Values/Total via the class hook and, whenever the meter
// holds exactly one value, appends it to the graph history even when the
// active mode isn't currently Graph, so switching modes doesn't lose
// history.
func (m *Meter) Update() {
	m.Err = nil
	if m.Class.Update == nil {
		return
	}
	if err := m.Class.Update(m); err != nil {
		m.Err = err
		return
	}
	if len(m.Values) == 1 {
		m.appendGraphSample(m.Values[0])
	}
}

func (m *Meter) appendGraphSample(v float64) {
	m.graphHistory = append(m.graphHistory, v)
	if m.graphCap > 0 && len(m.graphHistory) > m.graphCap {
		m.graphHistory = m.graphHistory[len(m.graphHistory)-m.graphCap:]
	}
}

// SetGraphWidth sizes the ring buffer to 2 samples per terminal column,
// trimming older samples if needed.
func (m *Meter) SetGraphWidth(columns int) {
	m.graphCap = columns * 2
	if m.graphCap > 0 && len(m.graphHistory) > m.graphCap {
		m.graphHistory = m.graphHistory[len(m.graphHistory)-m.graphCap:]
	}
}

// Render returns the meter's current display as a RichString, honouring
// Mode and the N/A error path.
func (m *Meter) Render(width int) richstring.RichString {
	if m.Err != nil {
		return richstring.New(fmt.Sprintf("%s: N/A", m.Class.Caption), richstring.AttrNone, color.FgHiBlack)
	}
	switch m.Mode {
	case ModeText:
		return m.renderText()
	case ModeGraph:
		return m.renderGraph(width)
	case ModeLED:
		return m.renderLED()
	default:
		return m.renderBar(width)
	}
}

// renderBar draws " Caption[||||||......]": the caption before the
// bracket, one run of '|' per value colored from the palette, and dim dots
// for the remainder. No numeric value is printed.
func (m *Meter) renderBar(width int) richstring.RichString {
	if width < 4 {
		width = 4
	}
	innerWidth := width - 2 // for the brackets
	rs := richstring.New("[", richstring.AttrNone, color.FgWhite)

	total := m.Total
	if total <= 0 {
		total = 1
	}
	filled := 0
	for i, v := range m.Values {
		clr := color.FgWhite
		if i < len(m.Class.Palette) {
			clr = m.Class.Palette[i]
		}
		sliceWidth := int(v / total * float64(innerWidth))
		if sliceWidth < 0 {
			sliceWidth = 0
		}
		if filled+sliceWidth > innerWidth {
			sliceWidth = innerWidth - filled
		}
		rs = rs.AppendPlain(strings.Repeat("|", sliceWidth), richstring.AttrNone, clr)
		filled += sliceWidth
	}
	if filled < innerWidth {
		rs = rs.AppendPlain(strings.Repeat(".", innerWidth-filled), richstring.AttrDim, color.FgHiBlack)
	}
	rs = rs.AppendPlain("]", richstring.AttrNone, color.FgWhite)

	caption := fmt.Sprintf(" %s", m.Class.Caption)
	captioned := richstring.New(caption, richstring.AttrBold, color.FgWhite).Append(rs)
	return captioned
}

func (m *Meter) renderText() richstring.RichString {
	parts := make([]string, len(m.Values))
	for i, v := range m.Values {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return richstring.New(fmt.Sprintf("%s: %s", m.Class.Caption, strings.Join(parts, "/")), richstring.AttrNone, color.FgWhite)
}

func (m *Meter) renderGraph(width int) richstring.RichString {
	if width < 4 {
		width = 4
	}
	if len(m.graphHistory) == 0 {
		return richstring.New(fmt.Sprintf("%s: (no data)", m.Class.Caption), richstring.AttrNone, color.FgHiBlack)
	}
	graph := asciigraph.Plot(m.graphHistory,
		asciigraph.Height(1),
		asciigraph.Width(width),
		asciigraph.Caption(m.Class.Caption),
	)
	return richstring.New(graph, richstring.AttrNone, color.FgGreen)
}

// sevenSegment is the fixed 3-row LED digit font.
var sevenSegment = map[rune][3]string{
	'0': {" _ ", "| |", "|_|"},
	'1': {"   ", "  |", "  |"},
	'2': {" _ ", " _|", "|_ "},
	'3': {" _ ", " _|", " _|"},
	'4': {"   ", "|_|", "  |"},
	'5': {" _ ", "|_ ", " _|"},
	'6': {" _ ", "|_ ", "|_|"},
	'7': {" _ ", "  |", "  |"},
	'8': {" _ ", "|_|", "|_|"},
	'9': {" _ ", "|_|", " _|"},
	'.': {"   ", "   ", " . "},
	'%': {"   ", " o ", "   "},
	' ': {"   ", "   ", "   "},
}

// renderLED draws a 3-row-tall digit rendering of the first value, its
// rows joined with newlines in a single RichString. Header.Draw places
// that string in one row slot and does not split it.
func (m *Meter) renderLED() richstring.RichString {
	var text string
	if len(m.Values) > 0 {
		text = fmt.Sprintf("%.0f", m.Values[0])
	}
	rows := [3]string{"", "", ""}
	for _, r := range text {
		glyph, ok := sevenSegment[r]
		if !ok {
			glyph = sevenSegment[' ']
		}
		for i := 0; i < 3; i++ {
			rows[i] += glyph[i]
		}
	}
	return richstring.New(strings.Join(rows[:], "\n"), richstring.AttrBold, color.FgGreen)
}
