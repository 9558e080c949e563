//go:build linux

package osaction

import (
	"golang.org/x/sys/unix"

	"github.com/ncruces/proctop/pkg/process"
)

// ioprio_set's "who" argument: IOPRIO_WHO_PROCESS targets a single pid.
const ioprioWhoProcess = 1

// ioprioPrioValue packs class and level into ioprio_set's combined prio
// argument: class occupies the top 3 bits, level the bottom 13.
func ioprioPrioValue(class process.IOPriorityClass, level int) int {
	return (int(class) << 13) | (level & 0x1fff)
}

func setIOPriority(pid int32, class process.IOPriorityClass, level int) error {
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, uintptr(ioprioWhoProcess), uintptr(pid), uintptr(ioprioPrioValue(class, level)))
	if errno != 0 {
		return errno
	}
	return nil
}

func setAffinity(pid int32, cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return unix.SchedSetaffinity(int(pid), &set)
}
