package functionbar_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/functionbar"
	"github.com/stretchr/testify/assert"
)

func TestNewTruncatesExcessLabels(t *testing.T) {
	labels := make([]string, 20)
	for i := range labels {
		labels[i] = "x"
	}
	b := functionbar.New(labels...)
	assert.Equal(t, "x", b.Labels[9])
}

func TestSetIgnoresOutOfRangeIndex(t *testing.T) {
	b := functionbar.New()
	b.Set(-1, "nope")
	b.Set(10, "nope")
	for _, l := range b.Labels {
		assert.Equal(t, "", l)
	}
}

func TestRenderSkipsEmptySlots(t *testing.T) {
	b := functionbar.New("Help", "", "Quit")
	rendered := b.Render()
	assert.Contains(t, rendered.Plain(), "F1")
	assert.Contains(t, rendered.Plain(), "Help")
	assert.NotContains(t, rendered.Plain(), "F2")
	assert.Contains(t, rendered.Plain(), "F3")
	assert.Contains(t, rendered.Plain(), "Quit")
}
