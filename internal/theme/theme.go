package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Names of the built-in themes accepted by Apply.
const (
	Default = "default"
	Mono    = "mono"
)

var (
	// HeaderStyle is used for the application title bar.
	HeaderStyle lipgloss.Style

	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style

	// PanelStyle wraps modal content (forms, raw editor, library).
	PanelStyle lipgloss.Style

	// ListItemStyle is the base style for rule rows.
	ListItemStyle lipgloss.Style

	// SelectedItemStyle highlights the currently focused row.
	SelectedItemStyle lipgloss.Style

	// PointStyle indents point rows under their rule.
	PointStyle lipgloss.Style

	// DimmedStyle renders secondary text such as descriptions and done points.
	DimmedStyle lipgloss.Style

	// MatchStyle marks rows that matched the search query.
	MatchStyle lipgloss.Style

	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style

	// ErrorStyle renders validation and I/O errors.
	ErrorStyle lipgloss.Style

	// SuccessStyle renders confirmations such as "Exported ...".
	SuccessStyle lipgloss.Style
)

func init() {
	build(true)
}

// Apply switches the package styles to the named theme.
func Apply(name string) error {
	switch name {
	case "", Default:
		build(true)
	case Mono:
		build(false)
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}

func build(color bool) {
	fg := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if !color {
			return s
		}
		return s.Foreground(c)
	}

	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Padding(0, 1)
	if color {
		HeaderStyle = HeaderStyle.Foreground(ColorWhite).Background(ColorBlue)
		StatusBarStyle = StatusBarStyle.Foreground(ColorWhite).Background(ColorSubtle)
	} else {
		HeaderStyle = HeaderStyle.Reverse(true)
		StatusBarStyle = StatusBarStyle.Reverse(true)
	}

	PanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	SelectedItemStyle = fg(lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBlue), ColorBlue)

	PointStyle = lipgloss.NewStyle().PaddingLeft(6)

	DimmedStyle = fg(lipgloss.NewStyle(), ColorGray)
	if !color {
		DimmedStyle = DimmedStyle.Faint(true)
	}

	MatchStyle = fg(lipgloss.NewStyle().Bold(true), ColorYellow)
	HelpStyle = fg(lipgloss.NewStyle().Italic(true), ColorGray)
	ErrorStyle = fg(lipgloss.NewStyle().Bold(true), ColorRed)
	SuccessStyle = fg(lipgloss.NewStyle(), ColorGreen)
}

// DoneStyle returns the style for a point's checkbox and text.
func DoneStyle(done bool) lipgloss.Style {
	if done {
		return DimmedStyle.Strikethrough(true)
	}
	return lipgloss.NewStyle()
}
