package setup

import (
	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
)

// colRow is one entry in the active column list, grounded on
// ColumnsPanel.c's active-fields list (the right-hand "Active Columns"
// panel; the left "Available Columns" panel is collapsed here into the
// 'a' key cycling through columns not yet active, since this display has
// one list instead of ColumnsPanel.c's two side-by-side ones).
type colRow struct {
	kind config.ColumnKind
}

func (r *colRow) Render(width int) richstring.RichString {
	rs := richstring.New(string(r.kind), richstring.AttrNone, 0)
	return padTo(rs, width)
}

// columnsPage lets an operator reorder and prune the visible column set,
// mirroring ColumnsPanel_update writing the edited list back to
// ScreenSettings.fields on every change instead of on an explicit save.
type columnsPage struct {
	settings *config.ScreenSettings
	list     *panel.Panel[*colRow]
	moving   bool
}

func newColumnsPage(settings *config.ScreenSettings) *columnsPage {
	p := &columnsPage{settings: settings, list: panel.New[*colRow](20)}
	p.rebuild()
	return p
}

func (p *columnsPage) rebuild() {
	rows := make([]*colRow, len(p.settings.Columns))
	for i, k := range p.settings.Columns {
		rows[i] = &colRow{kind: k}
	}
	p.list.SetRows(rows)
}

func (p *columnsPage) writeBack() {
	cols := make([]config.ColumnKind, p.list.Len())
	for i, r := range p.list.Rows() {
		cols[i] = r.kind
	}
	p.settings.Columns = cols
}

// nextAvailable returns the first DefaultColumns entry not already present
// in settings.Columns, cycling back to the first once every column is
// active.
func (p *columnsPage) nextAvailable() config.ColumnKind {
	present := make(map[config.ColumnKind]bool, len(p.settings.Columns))
	for _, k := range p.settings.Columns {
		present[k] = true
	}
	for _, k := range config.DefaultColumns {
		if !present[k] {
			return k
		}
	}
	return config.DefaultColumns[0]
}

func (p *columnsPage) title() string { return "Columns" }

func (p *columnsPage) handleKey(key rune) screen.Result {
	switch key {
	case 'j', platform.KeyDown:
		if p.moving {
			p.swap(1)
		} else {
			p.list.MoveCursor(1)
		}
	case 'k', platform.KeyUp:
		if p.moving {
			p.swap(-1)
		} else {
			p.list.MoveCursor(-1)
		}
	case '\r', '\n', platform.KeyEnter:
		p.moving = !p.moving
	case 'a':
		rows := append(p.list.Rows(), &colRow{kind: p.nextAvailable()})
		p.list.SetRows(rows)
		p.list.SetCursor(len(rows) - 1)
		p.writeBack()
	case platform.KeyDelete, 'd':
		if p.list.Len() > 1 {
			i := p.list.Cursor()
			rows := append(append([]*colRow{}, p.list.Rows()[:i]...), p.list.Rows()[i+1:]...)
			p.list.SetRows(rows)
			p.writeBack()
		}
	default:
		return screen.ResultIgnored
	}
	return screen.ResultHandled
}

// swap exchanges the selected row with its neighbor delta rows away, the
// "moving" mode ColumnsPanel.c's F7/F8 reorder behavior, bound here to the
// same up/down keys used for plain navigation once moving is toggled on.
func (p *columnsPage) swap(delta int) {
	rows := p.list.Rows()
	i := p.list.Cursor()
	j := i + delta
	if j < 0 || j >= len(rows) {
		return
	}
	rows[i], rows[j] = rows[j], rows[i]
	p.list.SetCursor(j)
	p.writeBack()
}

func (p *columnsPage) draw(width, height int) []richstring.RichString {
	p.list.SetPageHeight(height)
	return p.list.Draw(width)[1:] // Panel.Draw's leading Header row is unused here
}

func (p *columnsPage) functionBar() *functionbar.Bar {
	if p.moving {
		return functionbar.New("", "", "", "", "", "", "Done moving")
	}
	return functionbar.New("", "", "", "", "", "", "Add", "", "Remove", "Move")
}
