package app

import (
	"testing"

	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/meter"
	"github.com/ncruces/proctop/pkg/platform/testplatform"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/table"
	"github.com/stretchr/testify/assert"
)

func TestBuildComparatorKnownColumn(t *testing.T) {
	a := &process.Process{Identity: process.Identity{PID: 1}, PercentCPU: 10}
	b := &process.Process{Identity: process.Identity{PID: 2}, PercentCPU: 20}

	less := buildComparator(config.ColumnPercentCPU, false)
	assert.True(t, less(a, b))
	assert.False(t, less(b, a))

	desc := buildComparator(config.ColumnPercentCPU, true)
	assert.True(t, desc(b, a))
}

func TestBuildComparatorUnknownColumnFallsBackToCPU(t *testing.T) {
	a := &process.Process{Identity: process.Identity{PID: 1}, PercentCPU: 5}
	b := &process.Process{Identity: process.Identity{PID: 2}, PercentCPU: 50}

	less := buildComparator(config.ColumnKind("bogus"), false)
	assert.True(t, less(b, a)) // heaviest CPU first regardless of the descending flag
}

func TestBuildComparatorTieBreaksByPID(t *testing.T) {
	a := &process.Process{Identity: process.Identity{PID: 1}, PercentCPU: 5}
	b := &process.Process{Identity: process.Identity{PID: 2}, PercentCPU: 5}

	less := buildComparator(config.ColumnPercentCPU, false)
	assert.True(t, less(a, b))
}

func TestApplyOptionsOverridesSettings(t *testing.T) {
	settings := config.GetDefaultConfig().Screen
	applyOptions(&settings, Options{
		NoColor:       true,
		NoMouse:       true,
		Tree:          true,
		SortKey:       config.ColumnPID,
		HighlightSecs: 10,
	})

	assert.Equal(t, "monochrome", settings.ColorScheme)
	assert.False(t, settings.MouseEnabled)
	assert.True(t, settings.TreeView)
	assert.Equal(t, config.ColumnPID, settings.SortKey)
	assert.True(t, settings.HighlightChanges)
}

func TestBuildHeaderPopulatesEveryColumn(t *testing.T) {
	settings := config.GetDefaultConfig().Screen
	tbl := table.New(nil)
	plat := testplatform.New(4)

	hdr := buildHeader(&settings, tbl, plat)
	assert.Equal(t, settings.HeaderColumns, len(hdr.Columns))
	assert.NotZero(t, hdr.Height())

	hdr.Update()
	tasksCol := hdr.Columns[1].Meters[0]
	assert.Equal(t, "Tasks", tasksCol.Class.Name)
	assert.NoError(t, tasksCol.Err)
}

func TestBuildHeaderSharesClassAcrossSameNamedMeters(t *testing.T) {
	settings := &config.ScreenSettings{
		HeaderColumns: 1,
		Meters: [][]config.MeterSpec{
			{{Class: "CPU", Param: 0}, {Class: "CPU", Param: 1}},
		},
	}
	tbl := table.New(nil)
	plat := testplatform.New(2)

	hdr := buildHeader(settings, tbl, plat)
	assert.Same(t, hdr.Columns[0].Meters[0].Class, hdr.Columns[0].Meters[1].Class)
}

func TestMeterClassUnknownNameReportsError(t *testing.T) {
	tbl := table.New(nil)
	plat := testplatform.New(1)

	class := meterClass("NotARealMeter", plat, tbl)
	m := meter.New(class, 0)
	assert.Error(t, class.Update(m))
}
