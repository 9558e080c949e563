package incset_test

import (
	"testing"

	"github.com/ncruces/proctop/pkg/incset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateClearsBuffer(t *testing.T) {
	s := incset.New()
	s.Activate(incset.ModeSearch)
	s.Type('a')
	s.Activate(incset.ModeFilter)
	assert.Equal(t, "", s.Buffer())
	assert.Equal(t, incset.ModeFilter, s.Mode())
}

func TestFilterCommitPersistsAfterClose(t *testing.T) {
	s := incset.New()
	s.Activate(incset.ModeFilter)
	s.Type('s')
	s.Type('h')
	s.Commit()
	assert.False(t, s.Active())
	require.True(t, s.FilterActive())
	assert.Equal(t, "sh", s.FilterText())
	assert.True(t, s.Matches("bash"))
	assert.False(t, s.Matches("init"))
}

func TestFilterCancelClearsFilter(t *testing.T) {
	s := incset.New()
	s.Activate(incset.ModeFilter)
	s.Type('x')
	s.Commit()
	require.True(t, s.FilterActive())

	s.Activate(incset.ModeFilter)
	s.Cancel()
	assert.False(t, s.FilterActive())
	assert.Equal(t, "", s.FilterText())
}

func TestSearchCommitDoesNotFilter(t *testing.T) {
	s := incset.New()
	s.Activate(incset.ModeSearch)
	s.Type('a')
	s.Commit()
	assert.False(t, s.FilterActive())
}

func TestBackspaceTrimsLastRune(t *testing.T) {
	s := incset.New()
	s.Activate(incset.ModeSearch)
	s.Type('a')
	s.Type('b')
	s.Backspace()
	assert.Equal(t, "a", s.Buffer())
}

func TestIncrementalFindWrapsAround(t *testing.T) {
	rows := []string{"init", "bash", "sshd", "cron"}
	idx := incset.IncrementalFind(rows, 2, "ba", func(text, needle string) bool {
		return len(text) >= len(needle) && text[:len(needle)] == needle
	})
	assert.Equal(t, 1, idx)
}

func TestIncrementalFindEmptyNeedle(t *testing.T) {
	rows := []string{"init", "bash"}
	idx := incset.IncrementalFind(rows, 0, "", func(string, string) bool { return true })
	assert.Equal(t, -1, idx)
}

func TestMatchIsCaseInsensitiveByDefault(t *testing.T) {
	s := incset.New()
	assert.True(t, s.Match("SSHD", "sshd"))
	assert.True(t, s.Match("my-process", "PROC"))
	assert.False(t, s.Match("init", "zzz"))
}
