// Package app wires every concrete implementation (gopsutil's Platform, a
// gocui TerminalSurface, the OS-backed Signaler) into a running
// screen.Manager. It is adapted from lazydocker's pkg/app/app.go (the
// NewApp/Run bootstrap pairing a Config, a Log, a Gui, and an ErrorChan)
// retargeted from "build a docker command layer and a gocui GUI" onto
// "build a process Platform and a screen.Manager".
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/ncruces/proctop/pkg/config"
	"github.com/ncruces/proctop/pkg/header"
	"github.com/ncruces/proctop/pkg/log"
	"github.com/ncruces/proctop/pkg/mainpanel"
	"github.com/ncruces/proctop/pkg/meter"
	"github.com/ncruces/proctop/pkg/osaction"
	"github.com/ncruces/proctop/pkg/platform"
	"github.com/ncruces/proctop/pkg/platform/gopsutil"
	"github.com/ncruces/proctop/pkg/process"
	"github.com/ncruces/proctop/pkg/screen"
	"github.com/ncruces/proctop/pkg/setup"
	"github.com/ncruces/proctop/pkg/table"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Options carries the flag-derived overrides cmd/proctop's entrypoint
// collects before handing off to NewApp; zero values mean "use the saved
// config's default".
type Options struct {
	Version   string
	Commit    string
	BuildDate string
	Debug     bool

	Readonly      bool
	NoColor       bool
	NoMouse       bool
	NoUnicode     bool
	Tree          bool
	SortKey       config.ColumnKind
	Delay         time.Duration
	HighlightSecs int
	PIDFilter     []int32
	UserFilter    string
	CommandFilter string
}

// App owns every long-lived collaborator and the resulting screen.Manager.
type App struct {
	closers []io.Closer

	Config   *config.AppConfig
	Log      *logrus.Entry
	Platform platform.Platform
	Table    *table.Table
	Panel    *mainpanel.MainPanel
	Manager  *screen.Manager

	ErrorChan chan error
}

// NewApp bootstraps a new application: it loads persisted settings,
// applies opts on top, and wires the process Platform, table, header,
// main panel, and ScreenManager together.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.NewAppConfig(opts.Version, opts.Commit, opts.BuildDate, opts.Debug)
	if err != nil {
		return nil, err
	}

	app := &App{
		closers:   []io.Closer{},
		Config:    cfg,
		ErrorChan: make(chan error, 16),
	}
	app.Log = log.NewLogger(cfg)

	settings := &cfg.UserConfig.Screen
	applyOptions(settings, opts)

	mainpanel.ASCIITree = opts.NoUnicode

	app.Platform = filterPlatform(gopsutil.New(), opts)

	app.Table = table.New(buildComparator(settings.SortKey, settings.SortDescending))
	app.Table.SetTreeView(settings.TreeView)
	app.Table.HighlightDelay = settings.HighlightDelay

	hdr := buildHeader(settings, app.Table, app.Platform)

	surface, err := screen.NewGocuiSurface(settings.MouseEnabled)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closerFunc(func() error { surface.Close(); return nil }))

	pageHeight := 20
	if _, rows, err := term.GetSize(0); err == nil && rows > hdr.Height()+2 {
		pageHeight = rows - hdr.Height() - 2
	}

	action := osaction.New(app.Log, opts.Readonly)
	app.Panel = mainpanel.New(app.Table, pageHeight, action)
	app.Panel.Readonly = opts.Readonly

	app.Manager = screen.New(app.Log, surface, app.Platform, app.Table, hdr)
	app.Manager.Readonly = opts.Readonly
	app.Manager.Delay = screen.Delay(settings.Delay / (100 * time.Millisecond))
	if app.Manager.Delay < 1 {
		app.Manager.Delay = 1
	}

	app.bindSetupKey(settings, cfg)

	app.Manager.Push(app.Panel)
	return app, nil
}

// bindSetupKey wires 'S' to open pkg/setup.CategoriesPanel as a modal
// sub-screen, and rebuilds the comparator, tree mode, and header from
// whatever the operator changed once the screen closes, mirroring
// original_source/CategoriesPanel.c's callers re-scanning Settings after
// the setup screen returns.
func (app *App) bindSetupKey(settings *config.ScreenSettings, cfg *config.AppConfig) {
	app.Panel.Bind('S', func(m *mainpanel.MainPanel) mainpanel.Reaction {
		cp := setup.New(settings, app.Platform.MeterTypes())
		cp.OnClose = func() {
			app.Table.SetComparator(buildComparator(settings.SortKey, settings.SortDescending))
			app.Table.SetTreeView(settings.TreeView)
			app.Table.HighlightDelay = settings.HighlightDelay
			app.Manager.Header = buildHeader(settings, app.Table, app.Platform)
			_ = cfg.WriteToUserConfig(func(u *config.UserConfig) error {
				u.Screen = *settings
				return nil
			})
		}
		m.RequestPush(cp)
		return mainpanel.ReactionOK
	})
}

// Run starts the sampling loop; it returns when the operator quits or ctx
// is cancelled.
func (app *App) Run(ctx context.Context) error {
	return app.Manager.Run(ctx)
}

// Close tears down every resource NewApp opened (the terminal surface,
// chiefly).
func (app *App) Close() error {
	for _, closer := range app.closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// filterPlatform wraps plat so that Scan only forwards processes passing
// the -p/-u/-F pre-seed filters to sink, the one-shot equivalent of
// original_source/IncSet.c's Filter mode applied before the first scan
// rather than wired into the interactive overlay.
func filterPlatform(plat platform.Platform, opts Options) platform.Platform {
	if len(opts.PIDFilter) == 0 && opts.UserFilter == "" && opts.CommandFilter == "" {
		return plat
	}
	return &pidUserFilterPlatform{Platform: plat, opts: opts}
}

type pidUserFilterPlatform struct {
	platform.Platform
	opts Options
}

func (p *pidUserFilterPlatform) Scan(ctx context.Context, sink platform.Sink, pause bool) error {
	return p.Platform.Scan(ctx, filteringSink{sink: sink, opts: p.opts}, pause)
}

type filteringSink struct {
	sink platform.Sink
	opts Options
}

func (f filteringSink) Upsert(raw platform.RawProcess) {
	if len(f.opts.PIDFilter) > 0 {
		match := false
		for _, pid := range f.opts.PIDFilter {
			if raw.Identity.PID == pid {
				match = true
				break
			}
		}
		if !match {
			return
		}
	}
	if f.opts.UserFilter != "" && raw.Identity.User != f.opts.UserFilter {
		return
	}
	if f.opts.CommandFilter != "" && !containsFold(raw.Identity.CommandLine, f.opts.CommandFilter) {
		return
	}
	f.sink.Upsert(raw)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func applyOptions(settings *config.ScreenSettings, opts Options) {
	if opts.NoColor {
		settings.ColorScheme = "monochrome"
	}
	if opts.NoMouse {
		settings.MouseEnabled = false
	}
	if opts.Tree {
		settings.TreeView = true
	}
	if opts.SortKey != "" {
		settings.SortKey = opts.SortKey
	}
	if opts.Delay > 0 {
		settings.Delay = opts.Delay
	}
	if opts.HighlightSecs > 0 {
		settings.HighlightChanges = true
		settings.HighlightDelay = time.Duration(opts.HighlightSecs) * time.Second
	}
}

// fieldLess returns the ascending-order comparator for one column, or nil
// if key isn't a recognized sortable field; buildComparator falls back to
// ByPercentCPUDesc in that case.
func fieldLess(key config.ColumnKind) table.Less {
	switch key {
	case config.ColumnPID:
		return table.ByPID
	case config.ColumnUser:
		return func(a, b *process.Process) bool {
			if a.User != b.User {
				return a.User < b.User
			}
			return table.ByPID(a, b)
		}
	case config.ColumnPriority:
		return func(a, b *process.Process) bool {
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			return table.ByPID(a, b)
		}
	case config.ColumnNice:
		return func(a, b *process.Process) bool {
			if a.Nice != b.Nice {
				return a.Nice < b.Nice
			}
			return table.ByPID(a, b)
		}
	case config.ColumnVirt:
		return func(a, b *process.Process) bool {
			if a.Memory.Virtual != b.Memory.Virtual {
				return a.Memory.Virtual < b.Memory.Virtual
			}
			return table.ByPID(a, b)
		}
	case config.ColumnRes:
		return func(a, b *process.Process) bool {
			if a.Memory.Resident != b.Memory.Resident {
				return a.Memory.Resident < b.Memory.Resident
			}
			return table.ByPID(a, b)
		}
	case config.ColumnShr:
		return func(a, b *process.Process) bool {
			if a.Memory.Shared != b.Memory.Shared {
				return a.Memory.Shared < b.Memory.Shared
			}
			return table.ByPID(a, b)
		}
	case config.ColumnState:
		return func(a, b *process.Process) bool {
			if a.State != b.State {
				return a.State < b.State
			}
			return table.ByPID(a, b)
		}
	case config.ColumnPercentCPU:
		return func(a, b *process.Process) bool {
			if a.PercentCPU != b.PercentCPU {
				return a.PercentCPU < b.PercentCPU
			}
			return table.ByPID(a, b)
		}
	case config.ColumnPercentMem:
		return func(a, b *process.Process) bool {
			if a.PercentMem != b.PercentMem {
				return a.PercentMem < b.PercentMem
			}
			return table.ByPID(a, b)
		}
	case config.ColumnTime:
		return func(a, b *process.Process) bool {
			at, bt := a.Counters.CPUTicks(), b.Counters.CPUTicks()
			if at != bt {
				return at < bt
			}
			return table.ByPID(a, b)
		}
	case config.ColumnCommand:
		return func(a, b *process.Process) bool {
			if a.Command != b.Command {
				return a.Command < b.Command
			}
			return table.ByPID(a, b)
		}
	default:
		return nil
	}
}

// buildComparator turns a Setup-screen sort column and direction into a
// table.Less, reversing an ascending fieldLess when descending is wanted;
// an unrecognized column falls back to the table's heaviest-CPU-first
// default, the one htop itself starts with.
func buildComparator(key config.ColumnKind, descending bool) table.Less {
	less := fieldLess(key)
	if less == nil {
		return table.ByPercentCPUDesc
	}
	if !descending {
		return less
	}
	return func(a, b *process.Process) bool { return less(b, a) }
}

// buildHeader turns settings.Meters into a populated *header.Header,
// instantiating one meter.Class per distinct class name referenced and
// one meter.Meter per MeterSpec; Update closures read from plat for
// system-wide stats and from tbl for the table-derived "Tasks" meter,
// since meter.Class.Update only receives the Meter itself.
func buildHeader(settings *config.ScreenSettings, tbl *table.Table, plat platform.Platform) *header.Header {
	hdr := header.New(settings.HeaderColumns)
	classes := map[string]*meter.Class{}
	for col, specs := range settings.Meters {
		for _, spec := range specs {
			class, ok := classes[spec.Class]
			if !ok {
				class = meterClass(spec.Class, plat, tbl)
				classes[spec.Class] = class
			}
			m := meter.New(class, spec.Param)
			if mode, ok := parseMode(spec.Mode); ok {
				m.Mode = mode
			}
			hdr.AddMeter(col, m)
		}
	}
	return hdr
}

func parseMode(s string) (meter.Mode, bool) {
	switch s {
	case "bar":
		return meter.ModeBar, true
	case "text":
		return meter.ModeText, true
	case "graph":
		return meter.ModeGraph, true
	case "led":
		return meter.ModeLED, true
	default:
		return 0, false
	}
}

// meterClass builds the meter.Class for one of gopsutil.Platform's
// MeterTypes names; the catalog and this switch must stay in lockstep, the
// same "meter names are a closed set the Platform advertises" contract
// original_source/Meter.c's Meter_types table enforces in C.
func meterClass(name string, plat platform.Platform, tbl *table.Table) *meter.Class {
	switch name {
	case "AllCPUs", "CPU":
		return &meter.Class{
			Name:           name,
			MaxItems:       1,
			Caption:        "CPU",
			Palette:        []color.Attribute{color.FgGreen},
			SupportedModes: []meter.Mode{meter.ModeBar, meter.ModeGraph, meter.ModeText, meter.ModeLED},
			Update: func(m *meter.Meter) error {
				values, err := plat.SetCPUValues(m.Param)
				if err != nil {
					return err
				}
				m.Values = values
				m.Total = 100
				return nil
			},
		}
	case "Memory":
		return &meter.Class{
			Name:           name,
			MaxItems:       2,
			Caption:        "Mem",
			Palette:        []color.Attribute{color.FgGreen, color.FgBlue},
			SupportedModes: []meter.Mode{meter.ModeBar, meter.ModeText},
			Update: func(m *meter.Meter) error {
				values, total, err := plat.SetMemoryValues()
				if err != nil {
					return err
				}
				m.Values, m.Total = values, total
				return nil
			},
		}
	case "Swap":
		return &meter.Class{
			Name:           name,
			MaxItems:       1,
			Caption:        "Swp",
			Palette:        []color.Attribute{color.FgRed},
			SupportedModes: []meter.Mode{meter.ModeBar, meter.ModeText},
			Update: func(m *meter.Meter) error {
				values, total, err := plat.SetSwapValues()
				if err != nil {
					return err
				}
				m.Values, m.Total = values, total
				return nil
			},
		}
	case "Tasks":
		return &meter.Class{
			Name:           name,
			MaxItems:       2,
			Caption:        "Tasks",
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				m.Values = []float64{float64(tbl.TotalCount), float64(tbl.RunningCount)}
				return nil
			},
		}
	case "LoadAverage":
		return &meter.Class{
			Name:           name,
			MaxItems:       3,
			Caption:        "Load",
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				one, five, fifteen, err := plat.LoadAverage()
				if err != nil {
					return err
				}
				m.Values = []float64{one, five, fifteen}
				return nil
			},
		}
	case "Uptime":
		return &meter.Class{
			Name:           name,
			MaxItems:       1,
			Caption:        "Uptime",
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				secs, err := plat.Uptime()
				if err != nil {
					return err
				}
				m.Values = []float64{float64(secs)}
				return nil
			},
		}
	case "DiskIO":
		return &meter.Class{
			Name:           name,
			MaxItems:       2,
			Caption:        "DiskIO",
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				data, err := plat.DiskIO()
				if err != nil {
					return err
				}
				m.Values = []float64{float64(data.ReadBytes), float64(data.WriteBytes)}
				return nil
			},
		}
	case "NetworkIO":
		return &meter.Class{
			Name:           name,
			MaxItems:       2,
			Caption:        "NetIO",
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				data, err := plat.NetworkIO()
				if err != nil {
					return err
				}
				m.Values = []float64{float64(data.RxBytes), float64(data.TxBytes)}
				return nil
			},
		}
	case "Battery":
		return &meter.Class{
			Name:           name,
			MaxItems:       1,
			Caption:        "Batt",
			Palette:        []color.Attribute{color.FgYellow},
			SupportedModes: []meter.Mode{meter.ModeBar, meter.ModeText},
			Update: func(m *meter.Meter) error {
				pct, state, err := plat.Battery()
				if err != nil {
					return err
				}
				m.Values = []float64{pct}
				m.Total = 100
				m.Err = stateUnavailableErr(state)
				return nil
			},
		}
	default:
		return &meter.Class{
			Name:           name,
			MaxItems:       1,
			Caption:        name,
			SupportedModes: []meter.Mode{meter.ModeText},
			Update: func(m *meter.Meter) error {
				return fmt.Errorf("unknown meter class %q", name)
			},
		}
	}
}

// stateUnavailableErr flags the battery meter as "N/A" when no AC-state
// reading exists at all, distinct from a zero-but-known percentage.
func stateUnavailableErr(state platform.ACState) error {
	if state == platform.ACUnknown {
		return fmt.Errorf("battery state unavailable")
	}
	return nil
}
