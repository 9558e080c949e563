package setup

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
)

// doItem is one Display-options row: a label plus a getter/toggle/adjust
// triple, mirroring DisplayOptionsPanel.c's CheckItem/NumberItem pairing
// without needing two distinct row types.
type doItem struct {
	label  string
	value  func() string
	toggle func()
	adjust func(delta int) // nil for boolean items
}

func (it *doItem) Render(width int) richstring.RichString {
	rs := richstring.New(fmt.Sprintf("%-28s", it.label), richstring.AttrNone, 0)
	rs = rs.AppendPlain(it.value(), richstring.AttrBold, color.FgCyan)
	return padTo(rs, width)
}

// displayOptionsPage is the flat list of boolean/numeric toggles
// DisplayOptionsPanel.c presents: tree view, shadow other users, program
// path, highlight changes (+ its delay), mouse, update interval.
type displayOptionsPage struct {
	settings *config.ScreenSettings
	list     *panel.Panel[*doItem]
}

func newDisplayOptionsPage(settings *config.ScreenSettings) *displayOptionsPage {
	p := &displayOptionsPage{settings: settings, list: panel.New[*doItem](20)}
	items := []*doItem{
		{
			label:  "Tree view",
			value:  func() string { return boolLabel(settings.TreeView) },
			toggle: func() { settings.TreeView = !settings.TreeView },
		},
		{
			label:  "Shadow other users' processes",
			value:  func() string { return boolLabel(settings.ShadowOtherUsers) },
			toggle: func() { settings.ShadowOtherUsers = !settings.ShadowOtherUsers },
		},
		{
			label:  "Show full command line",
			value:  func() string { return boolLabel(settings.ShowProgramPath) },
			toggle: func() { settings.ShowProgramPath = !settings.ShowProgramPath },
		},
		{
			label:  "Enable mouse",
			value:  func() string { return boolLabel(settings.MouseEnabled) },
			toggle: func() { settings.MouseEnabled = !settings.MouseEnabled },
		},
		{
			label:  "Highlight new/old processes",
			value:  func() string { return boolLabel(settings.HighlightChanges) },
			toggle: func() { settings.HighlightChanges = !settings.HighlightChanges },
		},
		{
			label: "Highlight delay (seconds)",
			value: func() string { return fmt.Sprintf("%.0f", settings.HighlightDelay.Seconds()) },
			adjust: func(delta int) {
				secs := int(settings.HighlightDelay.Seconds()) + delta
				if secs < 1 {
					secs = 1
				}
				settings.HighlightDelay = time.Duration(secs) * time.Second
			},
		},
		{
			label: "Update interval (tenths of a second)",
			value: func() string { return fmt.Sprintf("%d", settings.Delay/(100*time.Millisecond)) },
			adjust: func(delta int) {
				tenths := int(settings.Delay/(100*time.Millisecond)) + delta
				if tenths < 1 {
					tenths = 1
				}
				if tenths > 100 {
					tenths = 100
				}
				settings.Delay = time.Duration(tenths) * 100 * time.Millisecond
			},
		},
		{
			label:  "Start with all branches collapsed",
			value:  func() string { return boolLabel(settings.AllBranchesCollapsed) },
			toggle: func() { settings.AllBranchesCollapsed = !settings.AllBranchesCollapsed },
		},
	}
	p.list.SetRows(items)
	return p
}

func boolLabel(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

func (p *displayOptionsPage) title() string { return "Display options" }

func (p *displayOptionsPage) handleKey(key rune) screen.Result {
	switch key {
	case 'j', platform.KeyDown:
		p.list.MoveCursor(1)
	case 'k', platform.KeyUp:
		p.list.MoveCursor(-1)
	case platform.KeyHome:
		p.list.Home()
	case platform.KeyEnd:
		p.list.End()
	case ' ', '\r', '\n', platform.KeyEnter:
		if it, ok := p.list.Selected(); ok && it.toggle != nil {
			it.toggle()
		}
	case '+', '=':
		if it, ok := p.list.Selected(); ok && it.adjust != nil {
			it.adjust(1)
		}
	case '-', '_':
		if it, ok := p.list.Selected(); ok && it.adjust != nil {
			it.adjust(-1)
		}
	default:
		return screen.ResultIgnored
	}
	return screen.ResultHandled
}

func (p *displayOptionsPage) draw(width, height int) []richstring.RichString {
	p.list.SetPageHeight(height)
	return p.list.Draw(width)[1:] // Panel.Draw's leading Header row is unused here
}

func (p *displayOptionsPage) functionBar() *functionbar.Bar {
	return functionbar.New("", "", "", "", "", "", "", "", "", "Done")
}
