// Package theme implements named color schemes for the display framework,
// the supplemented CRT_colorSchemes feature (original_source/CRT.c):
// more than one named palette selectable from Setup's Colors page, not
// just "color vs monochrome."
package theme

import "github.com/fatih/color"

// Role names a semantic slot a Scheme assigns a color to, rather than a
// literal terminal color id, so presentation code asks for "the color a
// loaded CPU bar segment should use" instead of hard-coding FgRed.
type Role int

const (
	RoleNormal Role = iota
	RoleProcessRunning
	RoleProcessWarn // a process using enough of a resource to draw attention
	RoleProcessCrit // zombie/stopped/over-threshold
	RoleBarFilled
	RoleBarEmpty
	RoleHeaderCaption
	RoleShadow // another user's process, dimmed
)

// Scheme maps every Role to a color.Attribute. A zero value means
// "terminal default foreground."
type Scheme struct {
	Name  string
	Roles map[Role]color.Attribute
}

// Color returns the color assigned to role, or the terminal default if the
// scheme doesn't override it.
func (s *Scheme) Color(role Role) color.Attribute {
	if s == nil {
		return 0
	}
	return s.Roles[role]
}

// Default is htop's original curses color pairing: green running
// processes, yellow/red warnings, cyan headers.
var Default = &Scheme{
	Name: "default",
	Roles: map[Role]color.Attribute{
		RoleProcessRunning: color.FgGreen,
		RoleProcessWarn:    color.FgYellow,
		RoleProcessCrit:    color.FgRed,
		RoleBarFilled:      color.FgGreen,
		RoleBarEmpty:       color.FgHiBlack,
		RoleHeaderCaption:  color.FgCyan,
		RoleShadow:         color.FgHiBlack,
	},
}

// Monochrome disables every color, the `-C`/`--no-color` CLI flag's
// effect and one of Setup's Colors page entries.
var Monochrome = &Scheme{Name: "monochrome", Roles: map[Role]color.Attribute{}}

// BlackOnWhite inverts the bar/header colors for a light terminal
// background, matching CRT.c's "Black on White" scheme.
var BlackOnWhite = &Scheme{
	Name: "blackOnWhite",
	Roles: map[Role]color.Attribute{
		RoleProcessRunning: color.FgGreen,
		RoleProcessWarn:    color.FgMagenta,
		RoleProcessCrit:    color.FgRed,
		RoleBarFilled:      color.FgBlue,
		RoleBarEmpty:       color.FgHiBlack,
		RoleHeaderCaption:  color.FgBlue,
		RoleShadow:         color.FgHiBlack,
	},
}

// Schemes lists every built-in scheme in Setup's Colors page order.
var Schemes = []*Scheme{Default, Monochrome, BlackOnWhite}

// ByName looks up a built-in scheme by its config name, falling back to
// Default when name is empty or unknown.
func ByName(name string) *Scheme {
	for _, s := range Schemes {
		if s.Name == name {
			return s
		}
	}
	return Default
}

// Active is the process-wide current scheme, the same "one active
// setting" shape ScreenSettings.ColorScheme persists; SetActive switches it
// (Setup's Colors page calls it). No renderer in this module reads it:
// meters, panels and process rows use their own fixed colors.
var Active = Default

// SetActive switches the process-wide scheme by config name.
func SetActive(name string) { Active = ByName(name) }
