// Package testplatform is a scripted, in-memory Platform used by
// pkg/table's tests to drive multi-scan simulations. It plays the role
// lazydocker's commands.NewDummy* constructors play for docker: a
// hand-fed stand-in so the core logic is testable without a real
// backend.
package testplatform

import (
	"context"

	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/process"
)

// Snapshot is one scripted scan: the full raw process set the Platform
// should report when Scan is next called.
type Snapshot struct {
	Processes []platform.RawProcess
}

// Platform replays a fixed sequence of Snapshots, one per call to Scan;
// calling Scan more times than there are snapshots repeats the last one.
type Platform struct {
	Snapshots   []Snapshot
	scanIndex   int
	activeCPUs  int
	existingCPUs int
}

// New builds a Platform that will replay snapshots in order.
func New(activeCPUs int, snapshots ...Snapshot) *Platform {
	if activeCPUs <= 0 {
		activeCPUs = 1
	}
	return &Platform{Snapshots: snapshots, activeCPUs: activeCPUs, existingCPUs: activeCPUs}
}

func (p *Platform) Scan(_ context.Context, sink platform.Sink, pause bool) error {
	if pause || len(p.Snapshots) == 0 {
		return nil
	}
	idx := p.scanIndex
	if idx >= len(p.Snapshots) {
		idx = len(p.Snapshots) - 1
	}
	for _, raw := range p.Snapshots[idx].Processes {
		sink.Upsert(raw)
	}
	if p.scanIndex < len(p.Snapshots)-1 {
		p.scanIndex++
	} else {
		p.scanIndex++
	}
	return nil
}

func (p *Platform) Uptime() (int64, error)                      { return 0, nil }
func (p *Platform) LoadAverage() (float64, float64, float64, error) { return 0, 0, 0, nil }
func (p *Platform) MaxPID() (int32, error)                       { return 1 << 20, nil }
func (p *Platform) ExistingCPUs() int                            { return p.existingCPUs }
func (p *Platform) ActiveCPUs() int                              { return p.activeCPUs }

func (p *Platform) SetCPUValues(int) ([]float64, error) { return nil, nil }
func (p *Platform) SetMemoryValues() ([]float64, float64, error) { return nil, 0, nil }
func (p *Platform) SetSwapValues() ([]float64, float64, error)   { return nil, 0, nil }

func (p *Platform) ProcessEnv(int32) (string, error)      { return "", nil }
func (p *Platform) ProcessLocks(int32) (string, error)    { return "", nil }
func (p *Platform) DiskIO() (platform.DiskIOData, error)  { return platform.DiskIOData{}, nil }
func (p *Platform) NetworkIO() (platform.NetworkIOData, error) {
	return platform.NetworkIOData{}, nil
}
func (p *Platform) Battery() (float64, platform.ACState, error) {
	return 0, platform.ACUnknown, nil
}

func (p *Platform) MeterTypes() []platform.MeterClass { return nil }
func (p *Platform) Signals() []platform.SignalItem {
	return []platform.SignalItem{
		{Number: 1, Name: "HUP"},
		{Number: 9, Name: "KILL"},
		{Number: 15, Name: "TERM"},
	}
}

// Raw is a small builder to keep table tests readable.
func Raw(pid, ppid int32, utime, stime uint64) platform.RawProcess {
	return platform.RawProcess{
		Identity: process.Identity{PID: pid, TGID: pid, ParentPID: ppid, Command: "proc"},
		Counters: process.Counters{UserTimeTicks: utime, SystemTimeTicks: stime},
		State:    process.Running,
	}
}
