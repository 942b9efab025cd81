package domain

import "time"

const (
	// HeatmapDays is the number of calendar days covered by the heatmap, today included.
	HeatmapDays = 365
	// ToolWindowDays is how far back the tool breakdown reaches from today.
	ToolWindowDays = 30
)

// ToolBreakdown sums operations per tool category.
type ToolBreakdown struct {
	Proxy     int64 `json:"proxy"`
	Repeater  int64 `json:"repeater"`
	Intruder  int64 `json:"intruder"`
	Scanner   int64 `json:"scanner"`
	Spider    int64 `json:"spider"`
	Decoder   int64 `json:"decoder"`
	Comparer  int64 `json:"comparer"`
	Sequencer int64 `json:"sequencer"`
	Extender  int64 `json:"extender"`
	Target    int64 `json:"target"`
}

// Add accumulates the counters of s.
func (b *ToolBreakdown) Add(s *DailyStat) {
	b.Proxy = addCounter(b.Proxy, s.InterceptedRequests)
	b.Repeater = addCounter(b.Repeater, s.RepeaterRequests)
	b.Intruder = addCounter(b.Intruder, s.IntruderRequests)
	b.Scanner = addCounter(b.Scanner, s.ScannerRequests)
	b.Spider = addCounter(b.Spider, s.SpiderRequests)
	b.Decoder = addCounter(b.Decoder, s.DecoderOperations)
	b.Comparer = addCounter(b.Comparer, s.ComparerOperations)
	b.Sequencer = addCounter(b.Sequencer, s.SequencerOperations)
	b.Extender = addCounter(b.Extender, s.ExtenderEvents)
	b.Target = addCounter(b.Target, s.TargetAdditions)
}

// ToolCount is one named entry of a ToolBreakdown.
type ToolCount struct {
	Name  string
	Count int64
}

// Rows lists the breakdown in display order.
func (b ToolBreakdown) Rows() []ToolCount {
	return []ToolCount{
		{"Proxy", b.Proxy},
		{"Repeater", b.Repeater},
		{"Intruder", b.Intruder},
		{"Scanner", b.Scanner},
		{"Spider", b.Spider},
		{"Decoder", b.Decoder},
		{"Comparer", b.Comparer},
		{"Sequencer", b.Sequencer},
		{"Extender", b.Extender},
		{"Target", b.Target},
	}
}

// Totals holds all-time sums across every stored day.
type Totals struct {
	Requests    int64 `json:"requests"`
	TimeHours   int64 `json:"time_hours"`
	TimeMinutes int64 `json:"time_minutes"`
	ActiveDays  int64 `json:"active_days"`
}

// StreakView is the JSON shape of the streak section.
type StreakView struct {
	Current    int64   `json:"current"`
	Longest    int64   `json:"longest"`
	LastActive *string `json:"last_active"`
}

// ProfileView is the JSON shape of the profile section.
type ProfileView struct {
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
	GitHub string `json:"github"`
}

// TodayView is the JSON shape of the today section.
type TodayView struct {
	Requests int64 `json:"requests"`
}

// Dashboard is the aggregated payload served by GET /api/stats.
type Dashboard struct {
	Streak  StreakView       `json:"streak"`
	Profile ProfileView      `json:"profile"`
	Today   TodayView        `json:"today"`
	Totals  Totals           `json:"totals"`
	Heatmap map[string]int64 `json:"heatmap"`
	Tools   ToolBreakdown    `json:"tools"`
}

// ComputeTotals sums primary requests and session time over stats.
// Every row counts as an active day, zero rows included. Sums saturate at
// math.MaxInt64 instead of wrapping.
func ComputeTotals(stats []DailyStat) Totals {
	var requests, minutes int64
	for i := range stats {
		requests = addCounter(requests, stats[i].PrimaryRequests())
		minutes = addCounter(minutes, stats[i].SessionMinutes)
	}
	return Totals{
		Requests:    requests,
		TimeHours:   minutes / 60,
		TimeMinutes: minutes % 60,
		ActiveDays:  int64(len(stats)),
	}
}

// BuildHeatmap returns exactly HeatmapDays keys ending at today, each holding
// the primary request count of the matching row or 0. Rows outside the window
// are ignored.
func BuildHeatmap(today time.Time, stats []DailyStat) map[string]int64 {
	heatmap := make(map[string]int64, HeatmapDays)
	for i := HeatmapDays - 1; i >= 0; i-- {
		heatmap[FormatDate(today.AddDate(0, 0, -i))] = 0
	}
	for i := range stats {
		if _, ok := heatmap[stats[i].Date]; ok {
			heatmap[stats[i].Date] = stats[i].PrimaryRequests()
		}
	}
	return heatmap
}

// BuildToolBreakdown sums the tool counters of rows dated on or after since.
// Dates are compared as strings.
func BuildToolBreakdown(since string, stats []DailyStat) ToolBreakdown {
	var tools ToolBreakdown
	for i := range stats {
		if stats[i].Date >= since {
			tools.Add(&stats[i])
		}
	}
	return tools
}

// ToolWindowStart returns the first date included in the tool breakdown.
func ToolWindowStart(today time.Time) string {
	return FormatDate(today.AddDate(0, 0, -ToolWindowDays))
}
