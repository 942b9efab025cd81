package theme

import "github.com/charmbracelet/lipgloss"

// Color palette matching the web dashboard
var (
	// Primary colors
	Orange       = lipgloss.Color("#FF6633")
	BrightOrange = lipgloss.Color("#FF8A5C")
	DarkOrange   = lipgloss.Color("#9A3D14")

	// Neutrals
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#C9D1D9")
	DimGray   = lipgloss.Color("#6E7681")
	DarkGray  = lipgloss.Color("#30363D")

	// Semantic colors
	Success = lipgloss.Color("#22C55E")
	Error   = lipgloss.Color("#EF4444")
)
