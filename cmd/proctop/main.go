// Command proctop is the interactive process viewer's entrypoint: it
// parses the CLI surface, builds the composition root in pkg/app, and
// runs the sampling loop until the operator quits.
//
// Flag parsing is adapted from the teacher's root main.go (flaggy.Bool/
// StringSlice/SetVersion/Parse), retargeted from lazydocker's
// --config/--debug/--file flags onto htop's process-viewer flag set
// (spec.md §6 / original_source/htop.c's getopt_long table).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"

	"github.com/ncruces/proctop/pkg/app"
	"github.com/ncruces/proctop/pkg/config"
)

const defaultVersion = "unversioned"

var (
	commit  string
	version = defaultVersion
	date    string
)

// unsetSentinel distinguishes "flag not passed" from "flag passed with an
// empty value" for the optional-argument flags (-H, -u), since flaggy's
// String flags always require an explicit value on the command line; an
// operator who wants htop's true "-H" (no "=SEC") behavior must pass
// "--highlight-changes=" (an empty value), spelled out in the flag's
// description below.
const unsetSentinel = "\x00unset"

func main() {
	updateBuildInfo()

	var (
		noColor       bool
		delay         int
		filter        string
		highlight     = unsetSentinel
		noMouse       bool
		pidList       string
		readonly      bool
		sortKey       string
		tree          bool
		user          = unsetSentinel
		noUnicode     bool
		debugFlag     bool
	)

	flaggy.SetName("proctop")
	flaggy.SetDescription("An interactive process viewer")
	flaggy.DefaultParser.AdditionalHelpPrepend = "https://github.com/ncruces/proctop"

	flaggy.Bool(&noColor, "C", "no-color", "force a monochrome palette")
	flaggy.Int(&delay, "d", "delay", "initial refresh interval, in tenths of a second (1-100)")
	flaggy.String(&filter, "F", "filter", "pre-seed the command-line filter")
	flaggy.String(&highlight, "H", "highlight-changes", "enable age-based highlighting; pass =SEC for a custom delay, or = for the default")
	flaggy.Bool(&noMouse, "M", "no-mouse", "disable mouse capture")
	flaggy.String(&pidList, "p", "pid", "comma-separated list of pids to display")
	flaggy.Bool(&readonly, "readonly", "readonly", "disable signal/renice/affinity actions")
	flaggy.String(&sortKey, "s", "sort-key", "initial sort column name, or 'help' to list them")
	flaggy.Bool(&tree, "t", "tree", "start in tree view")
	flaggy.String(&user, "u", "user", "restrict to one user's processes; pass =NAME, or = for $USER")
	flaggy.Bool(&noUnicode, "U", "no-unicode", "force ASCII tree/box characters")
	flaggy.Bool(&debugFlag, "debug", "debug", "enable debug logging")

	info := fmt.Sprintf("%s\nDate: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, commit, runtime.GOOS, runtime.GOARCH)
	flaggy.SetVersion(info)

	flaggy.Parse()

	if sortKey == "help" {
		printSortKeys()
		os.Exit(0)
	}

	opts := app.Options{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		Debug:     debugFlag,

		Readonly:      readonly,
		NoColor:       noColor,
		NoMouse:       noMouse,
		NoUnicode:     noUnicode,
		Tree:          tree,
		CommandFilter: filter,
	}

	if sortKey != "" {
		kind := resolveSortKey(sortKey)
		if kind == "" {
			fmt.Fprintf(os.Stderr, "proctop: unknown sort key %q (use -s help to list them)\n", sortKey)
			os.Exit(1)
		}
		opts.SortKey = kind
	}
	if delay > 0 {
		opts.Delay = time.Duration(clampDelay(delay)) * 100 * time.Millisecond
	}
	if highlight != unsetSentinel {
		secs, err := strconv.Atoi(highlight)
		if err != nil || secs <= 0 {
			secs = 5
		}
		opts.HighlightSecs = secs
	}
	if pidList != "" {
		opts.PIDFilter = parsePIDList(pidList)
	}
	if user != unsetSentinel {
		opts.UserFilter = user
		if opts.UserFilter == "" {
			opts.UserFilter = os.Getenv("USER")
		}
	}

	a, err := app.NewApp(opts)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		newErr := errors.Wrap(err, 0)
		stackTrace := newErr.ErrorStack()
		a.Log.Error(stackTrace)
		log.Fatalf("proctop exited with an error\n\n%s", stackTrace)
	}
}

func updateBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > 7 {
				version = commit[:7]
			} else {
				version = commit
			}
		case "vcs.time":
			date = setting.Value
		}
	}
}

func clampDelay(tenths int) int {
	if tenths < 1 {
		tenths = 1
	}
	if tenths > 100 {
		tenths = 100
	}
	return tenths
}

func parsePIDList(s string) []int32 {
	parts := strings.Split(s, ",")
	out := make([]int32, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, int32(n))
		}
	}
	return out
}

var sortKeyNames = map[string]config.ColumnKind{
	"pid":     config.ColumnPID,
	"user":    config.ColumnUser,
	"pri":     config.ColumnPriority,
	"ni":      config.ColumnNice,
	"virt":    config.ColumnVirt,
	"res":     config.ColumnRes,
	"shr":     config.ColumnShr,
	"s":       config.ColumnState,
	"cpu":     config.ColumnPercentCPU,
	"mem":     config.ColumnPercentMem,
	"time":    config.ColumnTime,
	"command": config.ColumnCommand,
}

func resolveSortKey(name string) config.ColumnKind {
	if kind, ok := sortKeyNames[strings.ToLower(name)]; ok {
		return kind
	}
	return ""
}

func printSortKeys() {
	names := make([]string, 0, len(sortKeyNames))
	for name := range sortKeyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Available sort keys:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
}
