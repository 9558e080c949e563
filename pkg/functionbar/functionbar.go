// Package functionbar implements the bottom F-key label strip: ten
// slots, each an optional caption, rendered as a single reverse-video row.
// It generalizes lazydocker's static options-menu footer
// (pkg/gui/options_menu_panel.go's hard-coded key list) into a
// context-sensitive bar the active Panel or overlay replaces wholesale.
package functionbar

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/richstring"
)

// Slots is the number of function-key labels a bar holds (F1-F10).
const Slots = 10

// Bar is one ten-slot function-key label strip.
type Bar struct {
	Labels [Slots]string
}

// New builds a Bar from a label list; missing trailing slots stay blank.
func New(labels ...string) *Bar {
	b := &Bar{}
	for i := 0; i < len(labels) && i < Slots; i++ {
		b.Labels[i] = labels[i]
	}
	return b
}

// Set replaces the label at slot i (0-based, F1==0).
func (b *Bar) Set(i int, label string) {
	if i < 0 || i >= Slots {
		return
	}
	b.Labels[i] = label
}

// Render draws "F1label F2label ..." with the key number in reverse video
// and the caption in plain text, matching htop's function-key bar styling.
func (b *Bar) Render() richstring.RichString {
	rs := richstring.Empty()
	for i, label := range b.Labels {
		if label == "" {
			continue
		}
		key := fmt.Sprintf("F%d", i+1)
		rs = rs.AppendPlain(key, richstring.AttrReverse, color.FgBlack)
		rs = rs.AppendPlain(label+" ", richstring.AttrNone, color.FgCyan)
	}
	return rs
}
