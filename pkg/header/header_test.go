package header_test

import (
	"testing"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/header"
	"github.com/ncruces/proctop/pkg/meter"
	"github.com/stretchr/testify/assert"
)

func dummyClass(caption string, value float64) *meter.Class {
	return &meter.Class{
		Caption:        caption,
		MaxItems:       1,
		SupportedModes: []meter.Mode{meter.ModeBar},
		Palette:        []color.Attribute{color.FgGreen},
		Update: func(m *meter.Meter) error {
			m.Values = []float64{value}
			m.Total = 100
			return nil
		},
	}
}

func TestAddMeterClampsColumnIndex(t *testing.T) {
	h := header.New(2)
	h.AddMeter(5, meter.New(dummyClass("CPU", 1), 0))
	assert.Len(t, h.Columns[1].Meters, 1)
	assert.Len(t, h.Columns[0].Meters, 0)
}

func TestHeightIsTallestColumn(t *testing.T) {
	h := header.New(2)
	h.AddMeter(0, meter.New(dummyClass("A", 1), 0))
	h.AddMeter(0, meter.New(dummyClass("B", 1), 0))
	h.AddMeter(1, meter.New(dummyClass("C", 1), 0))
	assert.Equal(t, 2, h.Height())
}

func TestDrawProducesOneRowPerMeterSlot(t *testing.T) {
	h := header.New(1)
	h.AddMeter(0, meter.New(dummyClass("CPU", 10), 0))
	h.AddMeter(0, meter.New(dummyClass("Mem", 20), 0))
	h.Update()
	rows := h.Draw(20)
	assert.Len(t, rows, 2)
}

func TestSetColumnCountRedistributesRoundRobin(t *testing.T) {
	h := header.New(1)
	for i := 0; i < 4; i++ {
		h.AddMeter(0, meter.New(dummyClass("M", float64(i)), 0))
	}
	h.SetColumnCount(2)
	assert.Len(t, h.Columns, 2)
	assert.Len(t, h.Columns[0].Meters, 2)
	assert.Len(t, h.Columns[1].Meters, 2)
}
