package components

import (
	"strings"

	"github.com/burphub/burphub/internal/pkg/tui/theme"
)

// Bar is a horizontal bar scaled against Max.
type Bar struct {
	Value int64
	Max   int64
	Width int
	// Filled and Empty override the default glyphs when non-empty.
	Filled string
	Empty  string
}

// Cells returns how many of Width cells are filled. Any non-zero value
// fills at least one cell.
func (b Bar) Cells() int {
	if b.Width <= 0 || b.Max <= 0 || b.Value <= 0 {
		return 0
	}
	if b.Value >= b.Max {
		return b.Width
	}
	n := int(b.Value * int64(b.Width) / b.Max)
	if n == 0 {
		n = 1
	}
	return n
}

// View renders the bar
func (b Bar) View() string {
	styles := theme.Default()
	filled, empty := b.Filled, b.Empty
	if filled == "" {
		filled = "█"
	}
	if empty == "" {
		empty = "░"
	}

	n := b.Cells()
	width := max(b.Width, 0)
	return styles.BarFilled.Render(strings.Repeat(filled, n)) +
		styles.BarEmpty.Render(strings.Repeat(empty, width-n))
}
