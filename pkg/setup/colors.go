package setup

import (
	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/ncruces/proctop/pkg/theme"
)

// schemeRow is one radio-list entry in the Colors page, grounded on
// ColorsPanel.c's ColorSchemeNames radio list: exactly one scheme is
// selected at a time, applied immediately rather than on a separate
// confirm step.
type schemeRow struct {
	scheme   *theme.Scheme
	settings *config.ScreenSettings
}

func (r *schemeRow) Render(width int) richstring.RichString {
	mark := "( )"
	if r.settings.ColorScheme == r.scheme.Name || (r.settings.ColorScheme == "" && r.scheme == theme.Default) {
		mark = "(x)"
	}
	rs := richstring.New(mark+" "+r.scheme.Name, richstring.AttrNone, 0)
	return padTo(rs, width)
}

type colorsPage struct {
	settings *config.ScreenSettings
	list     *panel.Panel[*schemeRow]
}

func newColorsPage(settings *config.ScreenSettings) *colorsPage {
	p := &colorsPage{settings: settings, list: panel.New[*schemeRow](20)}
	rows := make([]*schemeRow, len(theme.Schemes))
	for i, s := range theme.Schemes {
		rows[i] = &schemeRow{scheme: s, settings: settings}
		if s.Name == settings.ColorScheme {
			p.list.SetCursor(i)
		}
	}
	p.list.SetRows(rows)
	return p
}

func (p *colorsPage) title() string { return "Colors" }

func (p *colorsPage) handleKey(key rune) screen.Result {
	switch key {
	case 'j', platform.KeyDown:
		p.list.MoveCursor(1)
	case 'k', platform.KeyUp:
		p.list.MoveCursor(-1)
	case ' ', '\r', '\n', platform.KeyEnter:
		if row, ok := p.list.Selected(); ok {
			p.settings.ColorScheme = row.scheme.Name
			theme.SetActive(row.scheme.Name)
		}
	default:
		return screen.ResultIgnored
	}
	return screen.ResultHandled
}

func (p *colorsPage) draw(width, height int) []richstring.RichString {
	p.list.SetPageHeight(height)
	return p.list.Draw(width)[1:] // Panel.Draw's leading Header row is unused here
}

func (p *colorsPage) functionBar() *functionbar.Bar {
	return functionbar.New("", "", "", "", "", "", "", "", "", "Use")
}
