package affinity_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/affinity"
	"github.com/stretchr/testify/assert"
)

func TestStateOffWhenEmpty(t *testing.T) {
	s := affinity.NewSet()
	assert.Equal(t, affinity.StateOff, s.StateOfRange(0, 3))
}

func TestStatePartialWhenSomeSet(t *testing.T) {
	s := affinity.NewSet()
	s.Add(1)
	assert.Equal(t, affinity.StatePartial, s.StateOfRange(0, 3))
}

func TestStateOnWhenAllSet(t *testing.T) {
	s := affinity.NewSet()
	for i := 0; i <= 3; i++ {
		s.Add(i)
	}
	assert.Equal(t, affinity.StateOn, s.StateOfRange(0, 3))
}

func TestToggleFlipsMembership(t *testing.T) {
	s := affinity.NewSet()
	s.Toggle(2)
	assert.True(t, s.Has(2))
	s.Toggle(2)
	assert.False(t, s.Has(2))
}

func TestNodeToggleSetsWholeRangeWhenNotFullyOn(t *testing.T) {
	s := affinity.NewSet()
	n := &affinity.Node{First: 0, Last: 3}
	n.Toggle(s)
	assert.Equal(t, affinity.StateOn, n.State(s))
}

func TestNodeToggleClearsWholeRangeWhenFullyOn(t *testing.T) {
	s := affinity.NewSet()
	s.SetRange(0, 3, true)
	n := &affinity.Node{First: 0, Last: 3}
	n.Toggle(s)
	assert.Equal(t, affinity.StateOff, n.State(s))
}

func TestFlatListOneNodePerCPU(t *testing.T) {
	nodes := affinity.FlatList(4)
	assert.Len(t, nodes, 4)
	assert.Equal(t, "CPU 0", nodes[0].Label)
	assert.Equal(t, "CPU 3", nodes[3].Label)
	assert.True(t, nodes[0].Leaf)
}

func TestCPUSetRoundTrip(t *testing.T) {
	s := affinity.NewSet()
	s.Add(0)
	s.Add(3)
	cpuSet := s.ToCPUSet()
	back := affinity.FromCPUSet(&cpuSet, 8)
	assert.True(t, back.Has(0))
	assert.True(t, back.Has(3))
	assert.False(t, back.Has(1))
}

func TestCPUsReturnsSortedAscending(t *testing.T) {
	s := affinity.NewSet()
	s.Add(5)
	s.Add(1)
	s.Add(3)
	assert.Equal(t, []int{1, 3, 5}, s.CPUs())
}
