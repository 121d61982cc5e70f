package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Muted         lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowSelected lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "default":
		return DefaultTheme()
	default:
		return DefaultTheme()
	}
}
