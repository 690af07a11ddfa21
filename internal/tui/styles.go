package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/taskboard/internal/task"
)

// Palette.
//
//nolint:gochecknoglobals // palette
var (
	colorHigh    = lipgloss.Color("#E5484D")
	colorMedium  = lipgloss.Color("#F5A524")
	colorLow     = lipgloss.Color("#30A46C")
	colorAccent  = lipgloss.Color("#7C66DC")
	colorMuted   = lipgloss.Color("#8B8D98")
	colorSuccess = lipgloss.Color("#30A46C")
	colorError   = lipgloss.Color("#E5484D")
)

// Styles holds every style the dashboard renders with.
type Styles struct {
	Header    lipgloss.Style
	Clock     lipgloss.Style
	Stat      lipgloss.Style
	Section   map[task.Partition]lipgloss.Style
	Card      lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Modal     lipgloss.Style
	Label     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Footer    lipgloss.Style
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
}

// DefaultStyles returns the dashboard styles.
func DefaultStyles() Styles {
	section := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(c).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(c)
	}
	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Clock: lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2),
		Stat: lipgloss.NewStyle().
			Bold(true).
			PaddingRight(2),
		Section: map[task.Partition]lipgloss.Style{
			task.PartitionHigh:   section(colorHigh),
			task.PartitionMedium: section(colorMedium),
			task.PartitionLow:    section(colorLow),
		},
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(colorAccent),
		Unfocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.HiddenBorder()).
			BorderLeft(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2),
		Label: lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10), //nolint:mnd // label column
		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingTop(1),
	}
}
