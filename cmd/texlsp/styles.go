package main

import "github.com/charmbracelet/lipgloss"

var (
	colorLabel = lipgloss.Color("#3b82f6") // blue-500
	colorDim   = lipgloss.Color("#6b7280") // gray-500
)

// styles holds the lipgloss styles for text output.
type styles struct {
	Label  lipgloss.Style
	Detail lipgloss.Style
}

// newStyles returns colored styles, or plain ones when color is false.
func newStyles(color bool) *styles {
	if !color {
		return &styles{
			Label:  lipgloss.NewStyle(),
			Detail: lipgloss.NewStyle(),
		}
	}

	return &styles{
		Label:  lipgloss.NewStyle().Foreground(colorLabel).Bold(true),
		Detail: lipgloss.NewStyle().Foreground(colorDim),
	}
}
