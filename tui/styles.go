package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Panel    lipgloss.Style
	Cursor   lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

func defaultStyles() styles {
	var (
		accent = lipgloss.Color("#bd93f9")
		muted  = lipgloss.Color("#6272a4")
		green  = lipgloss.Color("#50fa7b")
		red    = lipgloss.Color("#ff5555")
		text   = lipgloss.Color("#f8f8f2")
	)

	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Done: lipgloss.NewStyle().
			Foreground(green).
			Strikethrough(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Accent: lipgloss.NewStyle().
			Foreground(accent),
		Error: lipgloss.NewStyle().
			Foreground(red),
		HelpKey: lipgloss.NewStyle().
			Foreground(accent),
		HelpDesc: lipgloss.NewStyle().
			Foreground(muted),
	}
}
