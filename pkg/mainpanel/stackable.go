package mainpanel

import (
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/screen"
)

// HandleKey satisfies screen.Stackable. Navigation keys move the cursor
// directly against Panel; every other key runs through Dispatch and its
// Reaction bitset is translated into a screen.Result.
func (m *MainPanel) HandleKey(key rune) (screen.Result, rune) {
	switch key {
	case 'j', platform.KeyDown:
		m.Panel.MoveCursor(1)
		m.Panel.ResetTypeAhead()
		return screen.ResultHandled, 0
	case 'k', platform.KeyUp:
		m.Panel.MoveCursor(-1)
		m.Panel.ResetTypeAhead()
		return screen.ResultHandled, 0
	case platform.KeyPgUp:
		m.Panel.PageUp()
		return screen.ResultHandled, 0
	case platform.KeyPgDn:
		m.Panel.PageDown()
		return screen.ResultHandled, 0
	case platform.KeyHome:
		m.Panel.Home()
		return screen.ResultHandled, 0
	case platform.KeyEnd:
		m.Panel.End()
		return screen.ResultHandled, 0
	case platform.KeyEsc:
		m.Panel.ResetTypeAhead()
		return screen.ResultHandled, 0
	}

	reaction := m.Dispatch(key)
	return reactionToResult(reaction), 0
}

// reactionToResult maps the Reaction bitset a bound Action returns onto
// the ScreenManager's Result enum, preferring the strongest signal
// present: quitting beats a forced rescan beats a plain refresh beats a
// cosmetic redraw.
func reactionToResult(r Reaction) screen.Result {
	switch {
	case r.Has(ReactionQuit):
		return screen.ResultBreakLoop
	case r.Has(ReactionResize):
		return screen.ResultResize
	case r.Has(ReactionRecalculate):
		return screen.ResultRescan
	case r.Has(ReactionRefresh):
		return screen.ResultRefresh
	case r.Has(ReactionRedrawBar), r.Has(ReactionUpdatePanelHdr):
		return screen.ResultRedraw
	default:
		return screen.ResultHandled
	}
}

// Draw renders the panel's header and visible rows as ANSI-ready bytes,
// the shape screen.Stackable.Draw promises the ScreenManager's surface.
func (m *MainPanel) Draw(width int) [][]byte {
	lines := m.Panel.Draw(width)
	out := make([][]byte, len(lines))
	for i, rs := range lines {
		out[i] = rs.Bytes()
	}
	return out
}

var _ screen.Stackable = (*MainPanel)(nil)
