package osaction

import (
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/ncruces/proctop/pkg/errs"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.Out = io.Discard
	return l.WithField("test", true)
}

func TestSignalReadonlyRefused(t *testing.T) {
	a := New(testLog(), true)
	err := a.Signal(int32(os.Getpid()), 0)
	assert.True(t, errs.HasCode(err, errs.ActionRefused))
}

func TestSignalZeroAgainstSelfSucceeds(t *testing.T) {
	// signal 0 only probes for existence/permission, it never actually
	// delivers a signal, so this is safe to run against the test process.
	a := New(testLog(), false)
	err := a.Signal(int32(os.Getpid()), 0)
	assert.NoError(t, err)
}

func TestSignalNoSuchProcess(t *testing.T) {
	a := New(testLog(), false)
	err := a.Signal(unusedPID(t), int(syscall.SIGTERM))
	assert.True(t, errs.HasCode(err, errs.NoSuchProcess))
}

func TestReniceReadonlyRefused(t *testing.T) {
	a := New(testLog(), true)
	err := a.Renice(int32(os.Getpid()), 1)
	assert.True(t, errs.HasCode(err, errs.ActionRefused))
}

func TestSetIOPriorityReadonlyRefused(t *testing.T) {
	a := New(testLog(), true)
	err := a.SetIOPriority(int32(os.Getpid()), 0, 0)
	assert.True(t, errs.HasCode(err, errs.ActionRefused))
}

func TestSetAffinityMaskReadonlyRefused(t *testing.T) {
	a := New(testLog(), true)
	err := a.SetAffinityMask(int32(os.Getpid()), []int{0})
	assert.True(t, errs.HasCode(err, errs.ActionRefused))
}

// unusedPID returns a pid that (almost certainly) doesn't exist, by
// probing upward from a very large number with signal 0 until ESRCH.
func unusedPID(t *testing.T) int32 {
	t.Helper()
	for pid := int32(1 << 30); pid > 0; pid-- {
		if err := syscall.Kill(int(pid), syscall.Signal(0)); err == syscall.ESRCH {
			return pid
		}
	}
	t.Fatal("could not find an unused pid")
	return 0
}
