package mainpanel

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/richstring"
)

// ASCIITree forces treePrefix to draw with plain ASCII connectors instead
// of box-drawing glyphs, the -U/--no-unicode flag's effect, mirroring
// original_source/CRT.c's ASCII fallback for terminals without a UTF-8
// locale.
var ASCIITree = false

// Render draws one process row as a fixed set of columns: PID, user, %CPU,
// %MEM, state, and the (tree-indented) command name, mirroring
// lazydocker's container row layout in pkg/gui/containers_panel.go but
// over process fields instead of container fields.
func (r Row) Render(width int) richstring.RichString {
	tagMark := " "
	if r.Tag {
		tagMark = "+"
	}
	rs := richstring.New(fmt.Sprintf("%s%6d ", tagMark, r.PID), 0, color.FgWhite)
	rs = rs.Append(richstring.New(fmt.Sprintf("%-8s ", truncate(r.User, 8)), 0, color.FgCyan))

	cpuAttr := richstring.Attr(0)
	cpuColor := color.FgWhite
	switch {
	case r.PercentCPU > 90:
		cpuColor = color.FgRed
	case r.PercentCPU > 50:
		cpuColor = color.FgYellow
	}
	rs = rs.Append(richstring.New(fmt.Sprintf("%5.1f ", r.PercentCPU), cpuAttr, cpuColor))
	rs = rs.Append(richstring.New(fmt.Sprintf("%5.1f ", r.PercentMem), 0, color.FgWhite))

	stateColor := color.FgWhite
	switch r.State {
	case process.Zombie, process.Stopped:
		stateColor = color.FgRed
	case process.Running:
		stateColor = color.FgGreen
	case process.DiskSleep:
		stateColor = color.FgYellow
	}
	rs = rs.Append(richstring.New(fmt.Sprintf("%s ", r.State.String()), 0, stateColor))

	rs = rs.Append(richstring.New(treePrefix(r.Depth(), r.Indent(), r.IsLastChild()), 0, color.FgHiBlack))

	commandAttr := richstring.Attr(0)
	commandColor := color.FgWhite
	if r.Highlighted() {
		commandAttr = richstring.AttrBold
		commandColor = color.FgGreen
	}
	command := r.Command
	if r.Unreadable {
		command = "no perm"
		commandColor = color.FgHiBlack
	} else if command == "" {
		command = "?"
	}
	rs = rs.Append(richstring.New(command, commandAttr, commandColor))

	if rs.Width() > width && width > 0 {
		rs = rs.Slice(0, width)
	}
	return rs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// treePrefix draws the vertical-connector glyphs for tree mode, reading the
// indent bitmask the table's tree builder assigned (bit k set means "the
// ancestor at depth k+1 still has a later sibling", so that level keeps
// drawing a pipe instead of blank space).
func treePrefix(depth int, indent uint64, isLastChild bool) string {
	if depth == 0 {
		return ""
	}
	pipe, corner, tee := "│ ", "└─", "├─"
	if ASCIITree {
		pipe, corner, tee = "| ", "`-", "|-"
	}
	var b strings.Builder
	for d := 0; d < depth-1; d++ {
		if indent&(1<<uint(d)) != 0 {
			b.WriteString(pipe)
		} else {
			b.WriteString("  ")
		}
	}
	if isLastChild {
		b.WriteString(corner)
	} else {
		b.WriteString(tee)
	}
	return b.String()
}

