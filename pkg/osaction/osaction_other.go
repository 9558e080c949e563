//go:build !linux

package osaction

import (
	"github.com/ncruces/proctop/pkg/errs"
	"github.com/ncruces/proctop/pkg/process"
)

func setIOPriority(pid int32, class process.IOPriorityClass, level int) error {
	return errs.New(errs.PlatformUnavailable, "ioprio_set is Linux-only")
}

func setAffinity(pid int32, cpus []int) error {
	return errs.New(errs.PlatformUnavailable, "CPU affinity is Linux-only")
}
