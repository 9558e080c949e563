package infoscreen_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ncruces/proctop/pkg/infoscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	lines []string
}

func (f fakeSource) Title() string { return "Environment" }
func (f fakeSource) Scan(ctx context.Context) ([]string, error) {
	return f.lines, nil
}

func TestNewLoadsInitialLines(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: []string{"HOME=/root", "PATH=/bin"}}, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Panel.Len())
}

func TestFilterNarrowsVisibleRows(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: []string{"init", "sshd", "sshd: user", "bash"}}, 5)
	require.NoError(t, err)

	s.Incs.Activate(1) // ModeFilter == 1
	for _, r := range "sshd" {
		s.Incs.Type(r)
	}
	s.Incs.Commit()
	s.SetFilterNeedle()

	rows := s.Panel.Rows()
	assert.Len(t, rows, 2)
	assert.Equal(t, "sshd", string(rows[0]))
	assert.Equal(t, "sshd: user", string(rows[1]))
}

func TestAppendWithFollowTailMovesCursorToEnd(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: []string{"line1"}}, 5)
	require.NoError(t, err)
	s.FollowTail = true
	s.Append("line2", "line3")
	assert.Equal(t, 2, s.Panel.Cursor())
}

func TestFindWrapsAround(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: []string{"init", "bash", "sshd", "cron"}}, 5)
	require.NoError(t, err)
	s.Panel.SetCursor(3)
	found := s.Find("in")
	require.True(t, found)
	assert.Equal(t, 0, s.Panel.Cursor())
}

func TestStreamLinesInvokesCallbackPerLine(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: nil}, 5)
	require.NoError(t, err)

	var got []string
	reader := strings.NewReader("a\nb\nc\n")
	require.NoError(t, s.StreamLines(reader, func(line string) {
		got = append(got, line)
	}))

	// give the background task a moment to finish
	deadline := time.Now().Add(time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestVisibleTextJoinsRows(t *testing.T) {
	s, err := infoscreen.New(context.Background(), fakeSource{lines: []string{"a", "b"}}, 5)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", s.VisibleText())
}
