package setup_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/ncruces/proctop/pkg/setup"
	"github.com/ncruces/proctop/pkg/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings() *config.ScreenSettings {
	s := config.GetDefaultConfig().Screen
	return &s
}

func testCatalog() []platform.MeterClass {
	return []platform.MeterClass{
		{Name: "AllCPUs", Caption: "CPU"},
		{Name: "Memory", Caption: "Mem"},
		{Name: "Swap", Caption: "Swp"},
		{Name: "Tasks", Caption: "Tasks"},
		{Name: "LoadAverage", Caption: "Load"},
		{Name: "Uptime", Caption: "Uptime"},
	}
}

func TestCategoriesPanelDrawsAllCategories(t *testing.T) {
	settings := newTestSettings()
	p := setup.New(settings, testCatalog())
	rows := p.Draw(80)
	require.NotEmpty(t, rows)
	joined := string(rows[0])
	assert.Contains(t, joined, "Display options")
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Contains(t, string(rows[1]), "Columns")
	assert.Contains(t, string(rows[2]), "Meters")
	assert.Contains(t, string(rows[3]), "Colors")
}

func TestCategoriesPanelTabTogglesBodyFocus(t *testing.T) {
	settings := newTestSettings()
	p := setup.New(settings, testCatalog())

	result, _ := p.HandleKey(platform.KeyTab)
	assert.Equal(t, screen.ResultHandled, result)

	result, _ = p.HandleKey(platform.KeyEsc)
	assert.Equal(t, screen.ResultHandled, result)
}

func TestCategoriesPanelEscOnCategoryListBreaksLoop(t *testing.T) {
	settings := newTestSettings()
	p := setup.New(settings, testCatalog())

	result, _ := p.HandleKey(platform.KeyEsc)
	assert.Equal(t, screen.ResultBreakLoop, result)
}

func TestColorsPageSelectionUpdatesScheme(t *testing.T) {
	settings := newTestSettings()
	settings.ColorScheme = "default"
	p := setup.New(settings, testCatalog())

	// Move the category cursor down to the Colors page (4th category).
	p.HandleKey('j')
	p.HandleKey('j')
	p.HandleKey('j')
	p.HandleKey(platform.KeyEnter) // enter body focus
	p.HandleKey('j')               // move to "monochrome"
	p.HandleKey(' ')               // select it

	assert.Equal(t, "monochrome", settings.ColorScheme)
	theme.SetActive("default")
}

func TestDisplayOptionsToggleFlipsTreeView(t *testing.T) {
	settings := newTestSettings()
	before := settings.TreeView
	p := setup.New(settings, testCatalog())

	p.HandleKey(platform.KeyEnter) // focus body (Display options is first category)
	p.HandleKey(' ')               // toggle first item, Tree view

	assert.NotEqual(t, before, settings.TreeView)
}

func TestColumnsPageAddAppendsColumn(t *testing.T) {
	settings := newTestSettings()
	settings.Columns = []config.ColumnKind{config.ColumnPID, config.ColumnCommand}
	p := setup.New(settings, testCatalog())

	p.HandleKey('j') // category cursor -> Columns
	p.HandleKey(platform.KeyEnter)
	p.HandleKey('a')

	assert.Len(t, settings.Columns, 3)
}
