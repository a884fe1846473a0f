package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk       = lipgloss.Color("#EBDBB2")
	ColorDim       = lipgloss.Color("#7C6F64")
	ColorAccent    = lipgloss.Color("#83A598")
	ColorAccentAlt = lipgloss.Color("#D3869B")
	ColorSuccess   = lipgloss.Color("#B8BB26")
	ColorWarn      = lipgloss.Color("#FABD2F")
)
