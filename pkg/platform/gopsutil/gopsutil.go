// Package gopsutil implements platform.Platform on top of
// github.com/shirou/gopsutil/v3, the cross-platform process/host metrics
// library the teacher's pack already vendors a dependency for (as
// opposed to a from-scratch /proc reader, explicitly out of scope — see
// spec Non-goals). It is the concrete Platform cmd/proctop wires up for
// every supported OS gopsutil itself supports, rather than a
// demonstration/build-tag-gated option.
package gopsutil

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	gcpu "github.com/shirou/gopsutil/v3/cpu"
	gdisk "github.com/shirou/gopsutil/v3/disk"
	ghost "github.com/shirou/gopsutil/v3/host"
	gload "github.com/shirou/gopsutil/v3/load"
	gmem "github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
	gprocess "github.com/shirou/gopsutil/v3/process"

	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/process"
)

// ticksPerSecond mirrors Linux's default USER_HZ; gopsutil reports CPU
// times in fractional seconds, and Counters (shared with every other
// Platform) is defined in clock ticks, the htop-native unit percent_cpu
// is derived from.
const ticksPerSecond = 100

// Platform is the real, gopsutil-backed implementation. The zero value is
// ready to use.
type Platform struct{}

// New builds a gopsutil-backed Platform.
func New() *Platform { return &Platform{} }

var _ platform.Platform = (*Platform)(nil)

// Scan lists every process gopsutil can see and upserts each into sink.
// When pause is true it does nothing, mirroring every other Platform's
// "leave the process set untouched" contract; header meters still read
// fresh values because their Set*Values methods hit gopsutil directly
// rather than going through a cached scan.
func (p *Platform) Scan(ctx context.Context, sink platform.Sink, pause bool) error {
	if pause {
		return nil
	}
	procs, err := gprocess.ProcessesWithContext(ctx)
	if err != nil {
		return fmt.Errorf("gopsutil: list processes: %w", err)
	}
	for _, gp := range procs {
		sink.Upsert(scanOne(ctx, gp))
	}
	return nil
}

func scanOne(ctx context.Context, gp *gprocess.Process) platform.RawProcess {
	pid := gp.Pid
	name, nameErr := gp.NameWithContext(ctx)
	cmdline, _ := gp.CmdlineWithContext(ctx)
	username, _ := gp.UsernameWithContext(ctx)
	ppid, _ := gp.PpidWithContext(ctx)
	nice, _ := gp.NiceWithContext(ctx)
	statuses, statusErr := gp.StatusWithContext(ctx)
	times, timesErr := gp.TimesWithContext(ctx)
	mem, memErr := gp.MemoryInfoWithContext(ctx)
	io, _ := gp.IOCountersWithContext(ctx)
	ctxsw, _ := gp.NumCtxSwitchesWithContext(ctx)
	uids, _ := gp.UidsWithContext(ctx)

	raw := platform.RawProcess{
		Identity: process.Identity{
			PID:         pid,
			TGID:        pid, // gopsutil enumerates thread-group leaders, not threads
			ParentPID:   ppid,
			Command:     name,
			CommandLine: cmdline,
			User:        username,
		},
		Scheduling: process.Scheduling{Nice: int(nice)},
		Unreadable: nameErr != nil || timesErr != nil || memErr != nil,
	}
	if len(uids) > 0 {
		raw.Identity.UID = uint32(uids[0])
	}
	if statusErr == nil {
		raw.State = stateFromStatus(statuses)
	}
	if timesErr == nil && times != nil {
		raw.Counters.UserTimeTicks = uint64(times.User * ticksPerSecond)
		raw.Counters.SystemTimeTicks = uint64(times.System * ticksPerSecond)
	}
	if io != nil {
		raw.Counters.ReadBytes = io.ReadBytes
		raw.Counters.WriteBytes = io.WriteBytes
	}
	if ctxsw != nil {
		raw.Counters.VoluntaryCtx = uint64(ctxsw.Voluntary)
		raw.Counters.InvoluntaryCtx = uint64(ctxsw.Involuntary)
	}
	if memErr == nil && mem != nil {
		raw.Memory.Virtual = mem.VMS
		raw.Memory.Resident = mem.RSS
	}
	return raw
}

// stateFromStatus maps gopsutil's status code (already a one-or-two
// letter code on Linux, a short word on Darwin) onto process.State.
func stateFromStatus(statuses []string) process.State {
	if len(statuses) == 0 || len(statuses[0]) == 0 {
		return process.Unknown
	}
	switch strings.ToUpper(statuses[0][:1]) {
	case "R":
		return process.Running
	case "S":
		return process.Sleeping
	case "D", "U":
		return process.DiskSleep
	case "T":
		return process.Stopped
	case "Z":
		return process.Zombie
	case "I":
		return process.Idle
	default:
		return process.Unknown
	}
}

func (p *Platform) Uptime() (int64, error) {
	u, err := ghost.Uptime()
	return int64(u), err
}

func (p *Platform) LoadAverage() (one, five, fifteen float64, err error) {
	avg, err := gload.Avg()
	if err != nil {
		return 0, 0, 0, err
	}
	return avg.Load1, avg.Load5, avg.Load15, nil
}

// MaxPID reads /proc/sys/kernel/pid_max on Linux; other OSes (and any
// read failure) fall back to a generous constant, the same "unknown, use
// a safe ceiling" behavior htop falls back to when its own sysctl probe
// fails.
func (p *Platform) MaxPID() (int32, error) {
	const fallback = 4194304
	data, err := os.ReadFile("/proc/sys/kernel/pid_max")
	if err != nil {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v <= 0 {
		return fallback, nil
	}
	return int32(v), nil
}

func (p *Platform) ExistingCPUs() int {
	n, err := gcpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func (p *Platform) ActiveCPUs() int { return p.ExistingCPUs() }

// SetCPUValues reports one core's (cpu==0 meaning the all-CPU aggregate)
// current utilization as a single used-percent value; interval 0 asks
// gopsutil for the delta since its last call rather than blocking to
// sample, matching the sampler's own non-blocking per-tick cadence.
func (p *Platform) SetCPUValues(cpu int) ([]float64, error) {
	if cpu <= 0 {
		percents, err := gcpu.Percent(0, false)
		if err != nil || len(percents) == 0 {
			return nil, err
		}
		return []float64{percents[0]}, nil
	}
	percents, err := gcpu.Percent(0, true)
	if err != nil {
		return nil, err
	}
	if cpu-1 >= len(percents) {
		return []float64{0}, nil
	}
	return []float64{percents[cpu-1]}, nil
}

func (p *Platform) SetMemoryValues() ([]float64, float64, error) {
	vm, err := gmem.VirtualMemory()
	if err != nil {
		return nil, 0, err
	}
	return []float64{float64(vm.Used), float64(vm.Cached)}, float64(vm.Total), nil
}

func (p *Platform) SetSwapValues() ([]float64, float64, error) {
	sm, err := gmem.SwapMemory()
	if err != nil {
		return nil, 0, err
	}
	return []float64{float64(sm.Used)}, float64(sm.Total), nil
}

func (p *Platform) ProcessEnv(pid int32) (string, error) {
	gp, err := gprocess.NewProcess(pid)
	if err != nil {
		return "", err
	}
	env, err := gp.Environ()
	if err != nil {
		return "", err
	}
	return strings.Join(env, "\n"), nil
}

// ProcessLocks has no gopsutil equivalent; it reads the Linux-specific
// /proc/<pid>/locks file directly, the one place this Platform steps
// outside gopsutil's API surface because no pack dependency covers it.
func (p *Platform) ProcessLocks(pid int32) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/locks", pid))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (p *Platform) DiskIO() (platform.DiskIOData, error) {
	counters, err := gdisk.IOCounters()
	if err != nil {
		return platform.DiskIOData{}, err
	}
	var out platform.DiskIOData
	for _, c := range counters {
		out.ReadBytes += c.ReadBytes
		out.WriteBytes += c.WriteBytes
	}
	return out, nil
}

func (p *Platform) NetworkIO() (platform.NetworkIOData, error) {
	counters, err := gnet.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return platform.NetworkIOData{}, err
	}
	return platform.NetworkIOData{RxBytes: counters[0].BytesRecv, TxBytes: counters[0].BytesSent}, nil
}

// Battery has no gopsutil equivalent (it's a host-metrics library, not a
// power-management one); proctop has no other pack dependency for ACPI
// access, so this reports "unknown" rather than pulling in a new,
// unjustified battery library for one optional meter.
func (p *Platform) Battery() (float64, platform.ACState, error) {
	return 0, platform.ACUnknown, nil
}

func (p *Platform) MeterTypes() []platform.MeterClass {
	return []platform.MeterClass{
		{Name: "AllCPUs", Caption: "CPU"},
		{Name: "CPU", Caption: "CPU"},
		{Name: "Memory", Caption: "Mem"},
		{Name: "Swap", Caption: "Swp"},
		{Name: "Tasks", Caption: "Tasks"},
		{Name: "LoadAverage", Caption: "Load"},
		{Name: "Uptime", Caption: "Uptime"},
		{Name: "DiskIO", Caption: "DiskIO"},
		{Name: "NetworkIO", Caption: "NetIO"},
		{Name: "Battery", Caption: "Batt"},
	}
}

// Signals lists the POSIX signals htop's kill dialog offers; numbers
// follow the common Linux x86 numbering.
func (p *Platform) Signals() []platform.SignalItem {
	return []platform.SignalItem{
		{Number: 1, Name: "HUP"}, {Number: 2, Name: "INT"}, {Number: 3, Name: "QUIT"},
		{Number: 4, Name: "ILL"}, {Number: 6, Name: "ABRT"}, {Number: 8, Name: "FPE"},
		{Number: 9, Name: "KILL"}, {Number: 10, Name: "USR1"}, {Number: 11, Name: "SEGV"},
		{Number: 12, Name: "USR2"}, {Number: 13, Name: "PIPE"}, {Number: 14, Name: "ALRM"},
		{Number: 15, Name: "TERM"}, {Number: 18, Name: "CONT"}, {Number: 19, Name: "STOP"},
		{Number: 20, Name: "TSTP"}, {Number: 21, Name: "TTIN"}, {Number: 22, Name: "TTOU"},
	}
}
