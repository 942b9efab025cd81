package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/burphub/burphub/internal/domain"
)

func TestDashboard_Render(t *testing.T) {
	d := &domain.Dashboard{
		Profile: domain.ProfileView{Handle: "alice", Bio: "a & b", GitHub: "alice"},
		Heatmap: map[string]int64{"2024-01-01": 0, "2024-01-02": 75, "2024-01-03": 5000},
		Tools:   domain.ToolBreakdown{Repeater: 1500},
		Totals:  domain.Totals{TimeHours: 2, TimeMinutes: 15},
	}

	var sb strings.Builder
	if err := Dashboard(d).Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<title>alice | BurpHub</title>",
		"a &amp; b",
		`href="https://github.com/alice"`,
		"2h 15m",
		"1.5K",
		`data-level="2" title="2024-01-02: 75 requests"`,
		`data-level="4"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if got := strings.Count(html, "<span data-level="); got != 3 {
		t.Errorf("expected 3 heatmap cells, got %d", got)
	}
	if strings.Index(html, "2024-01-01") > strings.Index(html, "2024-01-03") {
		t.Error("expected heatmap cells in date order")
	}
}

func TestDashboard_DefaultTitle(t *testing.T) {
	var sb strings.Builder
	if err := Dashboard(&domain.Dashboard{}).Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(sb.String(), "<h1>BurpHub</h1>") {
		t.Error("expected fallback handle")
	}
}

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		n    int64
		want int
	}{
		{-1, 0}, {0, 0}, {1, 1}, {49, 1}, {50, 2}, {199, 2}, {200, 3}, {999, 3}, {1000, 4},
	}
	for _, tt := range tests {
		if got := heatLevel(tt.n); got != tt.want {
			t.Errorf("heatLevel(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestGithubURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "https://github.com/alice"},
		{"@alice", "https://github.com/alice"},
		{" alice ", "https://github.com/alice"},
		{"https://github.com/alice", "https://github.com/alice"},
		{"HTTP://example.com/alice", "HTTP://example.com/alice"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := githubURL(tt.in); got != tt.want {
			t.Errorf("githubURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDashboard_GitHubURLPassesThrough(t *testing.T) {
	d := &domain.Dashboard{Profile: domain.ProfileView{GitHub: "https://github.com/alice"}}
	var sb strings.Builder
	if err := Dashboard(d).Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := sb.String()
	if !strings.Contains(html, `href="https://github.com/alice"`) {
		t.Error("expected full URL as link target")
	}
	if strings.Contains(html, "github.com/https:") {
		t.Error("full URL should not be prefixed again")
	}
}
