package display

import (
	"github.com/charmbracelet/lipgloss"
)

// Warm earth-tone palette shared by every rendered element
var (
	colorMuted   = lipgloss.Color("#5c5044")
	colorFg      = lipgloss.Color("#ab937b")
	colorBright  = lipgloss.Color("#f5d7b9")
	colorRed     = lipgloss.Color("#d95f5f")
	colorOrange  = lipgloss.Color("#eb8755")
	colorYellow  = lipgloss.Color("#f5b761")
	colorGreen   = lipgloss.Color("#93b56b")
	colorCyan    = lipgloss.Color("#61afaf")
	colorBlue    = lipgloss.Color("#6b93b5")
)

// Styles holds the lipgloss styles for each transcript element.
type Styles struct {
	UserPrompt lipgloss.Style
	Thought    lipgloss.Style
	ToolCall   lipgloss.Style
	ToolResult lipgloss.Style
	SystemNote lipgloss.Style
	ErrorNote  lipgloss.Style
	Answer     lipgloss.Style
	DataBlock  lipgloss.Style
	Spinner    lipgloss.Style
}

func DefaultStyles() *Styles {
	return &Styles{
		UserPrompt: lipgloss.NewStyle().
			Foreground(colorBright).
			Bold(true),

		Thought: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			PaddingLeft(2),

		ToolCall: lipgloss.NewStyle().
			Foreground(colorBlue).
			PaddingLeft(2),

		ToolResult: lipgloss.NewStyle().
			Foreground(colorCyan).
			PaddingLeft(2),

		SystemNote: lipgloss.NewStyle().
			Foreground(colorYellow).
			PaddingLeft(2),

		ErrorNote: lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true),

		Answer: lipgloss.NewStyle().
			Foreground(colorFg),

		DataBlock: lipgloss.NewStyle().
			Foreground(colorGreen).
			PaddingLeft(2),

		Spinner: lipgloss.NewStyle().
			Foreground(colorOrange),
	}
}
