package config

import "time"

// ColumnKind names one field a process row can display. These mirror the
// built-in ProcessField enum the header column list is built from; a
// dynamic-column id (future per-platform extension field) is represented
// as any string not found in DefaultColumns.
type ColumnKind string

const (
	ColumnPID     ColumnKind = "PID"
	ColumnUser    ColumnKind = "USER"
	ColumnPriority ColumnKind = "PRI"
	ColumnNice    ColumnKind = "NI"
	ColumnVirt    ColumnKind = "VIRT"
	ColumnRes     ColumnKind = "RES"
	ColumnShr     ColumnKind = "SHR"
	ColumnState   ColumnKind = "S"
	ColumnPercentCPU ColumnKind = "CPU%"
	ColumnPercentMem ColumnKind = "MEM%"
	ColumnTime    ColumnKind = "TIME+"
	ColumnCommand ColumnKind = "COMMAND"
)

// DefaultColumns is the column set and left-to-right order a fresh install
// starts with.
var DefaultColumns = []ColumnKind{
	ColumnPID, ColumnUser, ColumnPriority, ColumnNice, ColumnVirt,
	ColumnRes, ColumnShr, ColumnState, ColumnPercentCPU, ColumnPercentMem,
	ColumnTime, ColumnCommand,
}

// MeterSpec is one meter instance placed in a header column: the Class
// name it is built from (header.go/meter.go look these up by name) and an
// instance parameter (e.g. which CPU number, 0 for the aggregate).
type MeterSpec struct {
	Class string `yaml:"class"`
	Param int    `yaml:"param,omitempty"`
	Mode  string `yaml:"mode,omitempty"`
}

// ScreenSettings is one saved "screen": the column set, sort order,
// tree/flat mode, and header layout an operator has arranged. htop calls
// this struct ScreenSettings; proctop currently persists exactly one.
type ScreenSettings struct {
	// Columns is the ordered, visible column set.
	Columns []ColumnKind `yaml:"columns,omitempty"`

	// SortKey is the column the flat/tree view is ordered by.
	SortKey ColumnKind `yaml:"sortKey,omitempty"`

	// SortDescending is the sort direction; htop's +1/-1 direction flag.
	SortDescending bool `yaml:"sortDescending"`

	// TreeView toggles parent/child indentation vs. flat sorted rows.
	TreeView bool `yaml:"treeView,omitempty"`

	// AllBranchesCollapsed starts every tree subtree collapsed at launch.
	AllBranchesCollapsed bool `yaml:"allBranchesCollapsed,omitempty"`

	// HeaderColumns is the number of side-by-side meter columns in the
	// header band.
	HeaderColumns int `yaml:"headerColumns,omitempty"`

	// Meters lists the meters placed in each header column, indexed the
	// same as HeaderColumns.
	Meters [][]MeterSpec `yaml:"meters,omitempty"`

	// ColorScheme selects a named palette (see pkg/theme); one of
	// "default", "monochrome", "blackOnWhite".
	ColorScheme string `yaml:"colorScheme,omitempty"`

	// Delay is the sampling interval between scans.
	Delay time.Duration `yaml:"delay,omitempty"`

	// HighlightChanges enables the "new/old process" highlight attribute.
	HighlightChanges bool `yaml:"highlightChanges"`

	// HighlightDelay is how long a newly-appeared row keeps the "new"
	// attribute before aging out, when HighlightChanges is set.
	HighlightDelay time.Duration `yaml:"highlightDelaySecs,omitempty"`

	// ShowProgramPath shows the full command line instead of just argv[0].
	ShowProgramPath bool `yaml:"showProgramPath,omitempty"`

	// MouseEnabled toggles gocui mouse event delivery.
	MouseEnabled bool `yaml:"mouseEnabled"`

	// ShadowOtherUsers dims rows belonging to other users.
	ShadowOtherUsers bool `yaml:"shadowOtherUsers,omitempty"`
}

// UserConfig holds all of the user-configurable options; it is the root of
// config.yml.
type UserConfig struct {
	Screen ScreenSettings `yaml:"screen,omitempty"`

	// ConfirmOnQuit prompts before quitting when no confirmation dialog is
	// already open.
	ConfirmOnQuit bool `yaml:"confirmOnQuit,omitempty"`
}

// GetDefaultConfig returns the application defaults. SortDescending,
// HighlightChanges and MouseEnabled default to true, so their yaml tags
// carry no omitempty: a saved false is written out and survives being
// loaded over these defaults.
func GetDefaultConfig() UserConfig {
	return UserConfig{
		Screen: ScreenSettings{
			Columns:        append([]ColumnKind(nil), DefaultColumns...),
			SortKey:        ColumnPercentCPU,
			SortDescending: true,
			TreeView:       false,
			HeaderColumns:  2,
			Meters: [][]MeterSpec{
				{{Class: "AllCPUs"}, {Class: "Memory"}, {Class: "Swap"}},
				{{Class: "Tasks"}, {Class: "LoadAverage"}, {Class: "Uptime"}},
			},
			ColorScheme:      "default",
			Delay:            1500 * time.Millisecond,
			HighlightChanges: true,
			HighlightDelay:   5 * time.Second,
			MouseEnabled:     true,
		},
	}
}
