// Package osaction implements mainpanel.Signaler against the real
// operating system: sending signals, renicing, setting I/O priority, and
// pinning CPU affinity. It is adapted from lazydocker's
// pkg/commands/os.go (an *OSCommand* wrapping os/exec for running
// docker-compose/docker subprocesses) — retargeted from "run a shell
// command against a container" to "make a direct syscall against a pid",
// so the exec.Cmd plumbing drops out entirely and what's kept is the
// struct-with-a-logger shape and the ComplexError-wrapped error style
// from pkg/commands/errors.go (here pkg/errs).
package osaction

import (
	"fmt"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/ncruces/proctop/pkg/errs"
	"github.com/ncruces/proctop/pkg/process"
)

// Action performs process actions against the live operating system. It
// satisfies mainpanel.Signaler.
type Action struct {
	Log      *logrus.Entry
	Readonly bool
}

// New builds an Action bound to log.
func New(log *logrus.Entry, readonly bool) *Action {
	return &Action{Log: log, Readonly: readonly}
}

func (a *Action) refuse(verb string, pid int32) error {
	a.Log.WithField("pid", pid).Warn(verb + " refused: read-only session")
	return errs.New(errs.ActionRefused, fmt.Sprintf("%s pid %d refused: read-only session", verb, pid))
}

// Signal sends signal (a syscall.SIGxxx number) to pid.
func (a *Action) Signal(pid int32, signal int) error {
	if a.Readonly {
		return a.refuse("signal", pid)
	}
	err := syscall.Kill(int(pid), syscall.Signal(signal))
	return translateErrno(err, pid)
}

// Renice adjusts pid's scheduling priority by delta (added to the
// process's current nice value, clamped by the kernel to [-20, 19]).
func (a *Action) Renice(pid int32, delta int) error {
	if a.Readonly {
		return a.refuse("renice", pid)
	}
	current, err := syscall.Getpriority(syscall.PRIO_PROCESS, int(pid))
	if err != nil {
		return translateErrno(err, pid)
	}
	// The raw Linux getpriority syscall returns 20 - nice (range 1..40);
	// convert back to a nice value before adding delta and resubmitting
	// through setpriority.
	niceNow := 20 - current
	return translateErrno(syscall.Setpriority(syscall.PRIO_PROCESS, int(pid), niceNow+delta), pid)
}

// SetIOPriority sets pid's I/O scheduling class and level (see
// ioprio_set(2)); implemented per-OS since it has no syscall package
// wrapper.
func (a *Action) SetIOPriority(pid int32, class process.IOPriorityClass, level int) error {
	if a.Readonly {
		return a.refuse("set I/O priority", pid)
	}
	return translateErrno(setIOPriority(pid, class, level), pid)
}

// SetAffinityMask pins pid to exactly the given set of CPU numbers.
func (a *Action) SetAffinityMask(pid int32, cpus []int) error {
	if a.Readonly {
		return a.refuse("set affinity", pid)
	}
	return translateErrno(setAffinity(pid, cpus), pid)
}

func translateErrno(err error, pid int32) error {
	if err == nil {
		return nil
	}
	var already errs.ComplexError
	if xerrors.As(err, &already) {
		return err
	}
	if err == syscall.ESRCH {
		return errs.New(errs.NoSuchProcess, fmt.Sprintf("pid %d: %v", pid, err))
	}
	if err == syscall.EPERM || err == syscall.EACCES {
		return errs.New(errs.PermissionDenied, fmt.Sprintf("pid %d: %v", pid, err))
	}
	return errs.Wrap(err)
}
