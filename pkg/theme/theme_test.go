package theme_test

import (
	"testing"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/theme"
	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBackToDefault(t *testing.T) {
	assert.Same(t, theme.Default, theme.ByName("nonsense"))
	assert.Same(t, theme.Default, theme.ByName(""))
}

func TestByNameFindsBuiltins(t *testing.T) {
	assert.Same(t, theme.Monochrome, theme.ByName("monochrome"))
	assert.Same(t, theme.BlackOnWhite, theme.ByName("blackOnWhite"))
}

func TestMonochromeHasNoColors(t *testing.T) {
	assert.Equal(t, color.Attribute(0), theme.Monochrome.Color(theme.RoleProcessCrit))
}

func TestSetActiveSwitchesScheme(t *testing.T) {
	defer theme.SetActive("default")
	theme.SetActive("monochrome")
	assert.Same(t, theme.Monochrome, theme.Active)
}
