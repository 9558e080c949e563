package setup

import (
	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/panel"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/richstring"
	"github.com/ncruces/proctop/pkg/screen"
)

const leftColumnWidth = 22

// categoryRow is one entry in the left-hand category list.
type categoryRow struct{ name string }

func (r *categoryRow) Render(width int) richstring.RichString {
	return padTo(richstring.New(r.name, richstring.AttrNone, 0), width)
}

// CategoriesPanel is the Setup screen: a category list on the left and
// the selected category's body page on the right, grounded on
// CategoriesPanel.c's categoriesPanelPages table but collapsed from
// htop's two side-by-side ScreenManager panels into one
// screen.Stackable, since this display framework's ScreenManager is a
// panel stack rather than htop's resizable column layout.
type CategoriesPanel struct {
	pages     []page
	list      *panel.Panel[*categoryRow]
	focusBody bool

	// OnClose, if set, is invoked once when the panel is popped, letting
	// the caller react to edited settings (e.g. rebuilding the Header from
	// the new Meters layout).
	OnClose func()
}

// New builds the Setup screen over the given settings, using catalog as
// the Meters page's pickable meter classes (a Platform's MeterTypes()).
func New(settings *config.ScreenSettings, catalog []platform.MeterClass) *CategoriesPanel {
	pages := []page{
		newDisplayOptionsPage(settings),
		newColumnsPage(settings),
		newMetersPage(settings, catalog),
		newColorsPage(settings),
	}
	p := &CategoriesPanel{pages: pages, list: panel.New[*categoryRow](len(pages))}
	rows := make([]*categoryRow, len(pages))
	for i, pg := range pages {
		rows[i] = &categoryRow{name: pg.title()}
	}
	p.list.SetRows(rows)
	return p
}

func (p *CategoriesPanel) current() page { return p.pages[p.list.Cursor()] }

// HandleKey implements screen.Stackable.
func (p *CategoriesPanel) HandleKey(key rune) (screen.Result, rune) {
	switch key {
	case platform.KeyEsc:
		if p.focusBody {
			p.focusBody = false
			return screen.ResultHandled, 0
		}
		if p.OnClose != nil {
			p.OnClose()
		}
		return screen.ResultBreakLoop, 0
	case 'q':
		if !p.focusBody {
			if p.OnClose != nil {
				p.OnClose()
			}
			return screen.ResultBreakLoop, 0
		}
	case platform.KeyTab:
		p.focusBody = !p.focusBody
		return screen.ResultHandled, 0
	}

	if !p.focusBody {
		switch key {
		case 'j', platform.KeyDown:
			p.list.MoveCursor(1)
		case 'k', platform.KeyUp:
			p.list.MoveCursor(-1)
		case platform.KeyHome:
			p.list.Home()
		case platform.KeyEnd:
			p.list.End()
		case '\r', '\n', platform.KeyEnter, platform.KeyRight:
			p.focusBody = true
		}
		return screen.ResultHandled, 0
	}

	switch p.current().handleKey(key) {
	case screen.ResultIgnored:
		if key == platform.KeyLeft {
			p.focusBody = false
			return screen.ResultHandled, 0
		}
		return screen.ResultHandled, 0
	case screen.ResultBreakLoop:
		if p.OnClose != nil {
			p.OnClose()
		}
		return screen.ResultBreakLoop, 0
	default:
		return screen.ResultHandled, 0
	}
}

// Draw implements screen.Stackable: a fixed-width category column, a
// divider, the current page's body, and that page's function bar on the
// bottom row.
func (p *CategoriesPanel) Draw(width int) [][]byte {
	bodyWidth := width - leftColumnWidth - 1
	if bodyWidth < 1 {
		bodyWidth = 1
	}
	const maxBodyHeight = 30
	cur := p.current()
	bodyRows := cur.draw(bodyWidth, maxBodyHeight)
	height := p.list.Len()
	if len(bodyRows) > height {
		height = len(bodyRows)
	}

	p.list.SetPageHeight(height)
	leftRows := p.list.Draw(leftColumnWidth)[1:] // drop the unused list header row

	out := make([][]byte, 0, height+1)
	for i := 0; i < height; i++ {
		var left richstring.RichString
		if i < len(leftRows) {
			left = leftRows[i]
		} else {
			left = padTo(richstring.Empty(), leftColumnWidth)
		}
		var body richstring.RichString
		if i < len(bodyRows) {
			body = bodyRows[i]
		} else {
			body = padTo(richstring.Empty(), bodyWidth)
		}
		row := left.AppendPlain("│", richstring.AttrNone, 0).Append(body)
		out = append(out, row.Bytes())
	}
	out = append(out, cur.functionBar().Render().Bytes())
	return out
}

var _ screen.Stackable = (*CategoriesPanel)(nil)
