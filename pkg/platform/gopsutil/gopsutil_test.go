package gopsutil

import (
	"testing"

	"github.com/ncruces/proctop/pkg/process"
	"github.com/stretchr/testify/assert"
)

func TestStateFromStatus(t *testing.T) {
	cases := []struct {
		in   []string
		want process.State
	}{
		{[]string{"R"}, process.Running},
		{[]string{"S"}, process.Sleeping},
		{[]string{"D"}, process.DiskSleep},
		{[]string{"T"}, process.Stopped},
		{[]string{"Z"}, process.Zombie},
		{[]string{"I"}, process.Idle},
		{[]string{"?"}, process.Unknown},
		{nil, process.Unknown},
		{[]string{""}, process.Unknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stateFromStatus(c.in))
	}
}

func TestNewIsReady(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.GreaterOrEqual(t, p.ExistingCPUs(), 1)
}
