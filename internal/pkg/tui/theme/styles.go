package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains the shared terminal styles
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Value    lipgloss.Style

	Card lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton default Styles instance
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Orange).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(BrightOrange).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(LightGray),

		Muted: lipgloss.NewStyle().
			Foreground(DimGray),

		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGray).
			Padding(0, 2),

		BarFilled: lipgloss.NewStyle().
			Foreground(Orange),

		BarEmpty: lipgloss.NewStyle().
			Foreground(DarkGray),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Error: lipgloss.NewStyle().
			Foreground(Error),
	}
}
