package ui

import "strings"

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// pad truncates or right-pads a cell to the given width.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}
