package setup

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
)

var meterModeNames = []string{"bar", "text", "graph", "led"}

// meterRow is one meter placed in the currently-selected header column.
type meterRow struct {
	spec *config.MeterSpec
}

func (r *meterRow) Render(width int) richstring.RichString {
	mode := r.spec.Mode
	if mode == "" {
		mode = "bar"
	}
	rs := richstring.New(fmt.Sprintf("%-20s", r.spec.Class), richstring.AttrNone, 0)
	rs = rs.AppendPlain(mode, richstring.AttrDim, color.FgHiBlack)
	return padTo(rs, width)
}

// metersPage edits the per-column meter placement Header is built from,
// grounded on original_source/Meters tab of CategoriesPanel.c (htop calls
// it "Meters", combining what ColumnsPanel.c does for process columns but
// for the header band instead, split across HeaderColumns side-by-side
// groups rather than one flat list).
type metersPage struct {
	settings *config.ScreenSettings
	catalog  []platform.MeterClass
	column   int
	list     *panel.Panel[*meterRow]
}

func newMetersPage(settings *config.ScreenSettings, catalog []platform.MeterClass) *metersPage {
	p := &metersPage{settings: settings, catalog: catalog, list: panel.New[*meterRow](20)}
	p.rebuild()
	return p
}

func (p *metersPage) rebuild() {
	if p.column >= len(p.settings.Meters) {
		p.column = 0
	}
	if len(p.settings.Meters) == 0 {
		p.list.SetRows(nil)
		return
	}
	col := p.settings.Meters[p.column]
	rows := make([]*meterRow, len(col))
	for i := range col {
		rows[i] = &meterRow{spec: &col[i]}
	}
	p.list.SetRows(rows)
}

func (p *metersPage) nextCatalogClass() string {
	present := make(map[string]bool)
	if p.column < len(p.settings.Meters) {
		for _, m := range p.settings.Meters[p.column] {
			present[m.Class] = true
		}
	}
	for _, c := range p.catalog {
		if !present[c.Name] {
			return c.Name
		}
	}
	if len(p.catalog) > 0 {
		return p.catalog[0].Name
	}
	return "AllCPUs"
}

func (p *metersPage) title() string { return "Meters" }

func (p *metersPage) handleKey(key rune) screen.Result {
	switch key {
	case 'j', platform.KeyDown:
		p.list.MoveCursor(1)
	case 'k', platform.KeyUp:
		p.list.MoveCursor(-1)
	case platform.KeyTab, 'n':
		if len(p.settings.Meters) > 0 {
			p.column = (p.column + 1) % len(p.settings.Meters)
			p.rebuild()
		}
	case 'a':
		if p.column >= len(p.settings.Meters) {
			return screen.ResultHandled
		}
		p.settings.Meters[p.column] = append(p.settings.Meters[p.column], config.MeterSpec{Class: p.nextCatalogClass()})
		p.rebuild()
		p.list.SetCursor(p.list.Len() - 1)
	case platform.KeyDelete, 'd':
		if p.column >= len(p.settings.Meters) {
			return screen.ResultHandled
		}
		col := p.settings.Meters[p.column]
		i := p.list.Cursor()
		if i >= 0 && i < len(col) {
			p.settings.Meters[p.column] = append(append([]config.MeterSpec{}, col[:i]...), col[i+1:]...)
			p.rebuild()
		}
	case 'm':
		if row, ok := p.list.Selected(); ok {
			row.spec.Mode = nextMode(row.spec.Mode)
		}
	default:
		return screen.ResultIgnored
	}
	return screen.ResultHandled
}

func nextMode(current string) string {
	for i, name := range meterModeNames {
		if name == current {
			return meterModeNames[(i+1)%len(meterModeNames)]
		}
	}
	return meterModeNames[0]
}

func (p *metersPage) draw(width, height int) []richstring.RichString {
	p.list.SetPageHeight(height)
	header := richstring.New(fmt.Sprintf("Column %d/%d", p.column+1, len(p.settings.Meters)), richstring.AttrBold, color.FgCyan)
	rows := []richstring.RichString{padTo(header, width)}
	rows = append(rows, p.list.Draw(width)[1:]...)
	return rows
}

func (p *metersPage) functionBar() *functionbar.Bar {
	return functionbar.New("", "", "", "", "", "Mode", "", "", "Remove", "NextCol")
}
