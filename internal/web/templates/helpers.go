package templates

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/util"
)

// pageHandle is the heading shown for p, falling back to the product name.
func pageHandle(p domain.ProfileView) string {
	if p.Handle == "" {
		return "BurpHub"
	}
	return p.Handle
}

func sessionTime(t domain.Totals) string {
	return util.FormatHoursMinutes(t.TimeHours, t.TimeMinutes)
}

func formatCount(n int64) string {
	return util.FormatNumber(n)
}

func formatInt(n int64) string {
	return fmt.Sprintf("%d", n)
}

// heatLevel buckets a day's request count into five shades.
func heatLevel(n int64) int {
	switch {
	case n <= 0:
		return 0
	case n < 50:
		return 1
	case n < 200:
		return 2
	case n < 1000:
		return 3
	default:
		return 4
	}
}

func levelAttr(n int64) string {
	return strconv.Itoa(heatLevel(n))
}

func cellTitle(date string, n int64) string {
	return fmt.Sprintf("%s: %d requests", date, n)
}

func sortedDates(heatmap map[string]int64) []string {
	return slices.Sorted(maps.Keys(heatmap))
}

// githubURL links a GitHub handle. Values that are already URLs pass through.
func githubURL(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	lower := strings.ToLower(handle)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return handle
	}
	return "https://github.com/" + strings.TrimPrefix(handle, "@")
}
