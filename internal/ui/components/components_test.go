package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

func buckets(kms ...float64) []models.MonthlyBucket {
	out := make([]models.MonthlyBucket, len(kms))
	for i, km := range kms {
		out[i] = models.MonthlyBucket{
			Month:      time.Date(2024, time.January+time.Month(i), 1, 0, 0, 0, 0, time.UTC),
			DistanceKm: km,
		}
	}
	return out
}

func TestLoadStatus_Label(t *testing.T) {
	l := NewLoadStatus(time.UTC)
	updated := time.Date(2024, time.June, 3, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap models.Snapshot
		want string
	}{
		{"idle", models.Snapshot{}, "No data loaded yet"},
		{"first load", models.Snapshot{Loading: true, Status: models.StatusLoading}, "Loading workouts..."},
		{"reload", models.Snapshot{Loading: true, UpdatedAt: updated}, "Refreshing..."},
		{"failed first load", models.Snapshot{Status: models.StatusError}, "Load failed"},
		{"ready", models.Snapshot{Status: models.StatusReady, UpdatedAt: updated}, "Updated Mon 3 Jun 07:30"},
		{"failed reload", models.Snapshot{Status: models.StatusError, UpdatedAt: updated}, "Updated Mon 3 Jun 07:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Label(tt.snap); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadStatus_View(t *testing.T) {
	l := NewLoadStatus(time.UTC)

	loading := models.Snapshot{Loading: true}
	if got := ansi.Strip(l.View(loading)); !strings.HasSuffix(got, " Loading workouts...") || got == "Loading workouts..." {
		t.Errorf("loading view should carry the spinner, got %q", got)
	}

	ready := models.Snapshot{UpdatedAt: time.Date(2024, time.June, 3, 7, 30, 0, 0, time.UTC)}
	if got := ansi.Strip(l.View(ready)); got != "Updated Mon 3 Jun 07:30" {
		t.Errorf("ready view = %q", got)
	}
	if got := l.Since(ready); got != "Mon 3 Jun 07:30" {
		t.Errorf("Since() = %q", got)
	}
}

func TestLoadStatus_Spinner(t *testing.T) {
	l := NewLoadStatus(nil)
	if l.loc != time.Local {
		t.Error("nil location should default to local time")
	}
	if l.Init() == nil {
		t.Error("Init should return command")
	}
	if _, cmd := l.Update(l.spinner.Tick()); cmd == nil {
		t.Error("Update should return command for tick")
	}
	if _, cmd := l.Update(spinner.TickMsg{ID: 1 << 30}); cmd != nil {
		t.Error("ticks for another spinner should be ignored")
	}
}

func TestLoadStatus_Placeholder(t *testing.T) {
	view := NewLoadStatus(time.UTC).Placeholder(30, 5)
	if len(strings.Split(view, "\n")) != 5 {
		t.Errorf("placeholder should fill the height, got %q", view)
	}
	if !strings.Contains(ansi.Strip(view), "Loading workouts...") {
		t.Error("placeholder should include the loading label")
	}
}

func TestFormatKm(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0, "0.0 km"},
		{4.2, "4.2 km"},
		{10.25, "10.2 km"},
		{21.0975, "21.1 km"},
	}
	for _, tt := range tests {
		if got := FormatKm(tt.km); got != tt.want {
			t.Errorf("FormatKm(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestStatCard(t *testing.T) {
	card := ansi.Strip(StatCard("Last 7 Days", 4.2, false, 20))
	if !strings.Contains(card, "Last 7 Days") || !strings.Contains(card, "4.2 km") {
		t.Errorf("card missing content: %q", card)
	}

	stale := ansi.Strip(StatCard("Last Year", 120, true, 20))
	if !strings.Contains(stale, "120.0 km") {
		t.Errorf("stale card should still show the value: %q", stale)
	}
}

func TestStatRow_Wraps(t *testing.T) {
	cards := []string{
		StatCard("A", 1, false, 20),
		StatCard("B", 2, false, 20),
		StatCard("C", 3, false, 20),
		StatCard("D", 4, false, 20),
	}
	cardHeight := len(strings.Split(cards[0], "\n"))

	wide := StatRow(cards, 200)
	if got := len(strings.Split(wide, "\n")); got != cardHeight {
		t.Errorf("wide row height = %d, want %d", got, cardHeight)
	}

	narrow := StatRow(cards, 50)
	if got := len(strings.Split(narrow, "\n")); got != 2*cardHeight {
		t.Errorf("narrow row height = %d, want %d", got, 2*cardHeight)
	}

	if StatRow(nil, 80) != "" {
		t.Error("empty row should render nothing")
	}
}

func TestGoalPercent(t *testing.T) {
	if GoalPercent(15, 30) != 50 {
		t.Error("15 of 30 should be 50%")
	}
	if GoalPercent(10, 0) != 0 {
		t.Error("no goal should be 0%")
	}
	if GoalPercent(0, 30) != 0 {
		t.Error("no distance should be 0%")
	}
}

func TestRenderGoalBar(t *testing.T) {
	if RenderGoalBar(10, 0, 60) != "" {
		t.Error("goal bar should be hidden without a goal")
	}

	bar := ansi.Strip(RenderGoalBar(15, 30, 60))
	if !strings.Contains(bar, "50%") || !strings.Contains(bar, "15.0 km / 30.0 km") {
		t.Errorf("unexpected goal bar %q", bar)
	}

	full := ansi.Strip(RenderGradientBar(250, 10))
	if strings.Count(full, "█") != 10 {
		t.Errorf("overshoot should render a full bar, got %q", full)
	}
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}

func TestHexToRGB(t *testing.T) {
	if got := hexToRGB("#51cf66"); got != [3]int{0x51, 0xcf, 0x66} {
		t.Errorf("hexToRGB = %v", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("interpolateColor = %s", got)
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Test"); !strings.Contains(s, "Test") {
		t.Error("RenderLineChart should include the caption")
	}
	if s := ansi.Strip(RenderLineChart(nil, 20, 5, "")); s != "No data available" {
		t.Errorf("empty chart = %q", s)
	}
}

func TestRenderMonthlyChart(t *testing.T) {
	if s := ansi.Strip(RenderMonthlyChart(nil, 60, 8)); s != "No data available" {
		t.Errorf("empty chart = %q", s)
	}

	s := RenderMonthlyChart(buckets(40, 55.5, 32), 60, 8)
	if !strings.Contains(s, "Jan 2024 to Mar 2024") {
		t.Errorf("caption should span the buckets: %q", s)
	}

	if single := RenderMonthlyChart(buckets(12), 60, 8); !strings.Contains(single, "Jan 2024 to Jan 2024") {
		t.Errorf("single bucket should still plot: %q", single)
	}
}

func TestMonthlySeries(t *testing.T) {
	got := MonthlySeries(buckets(1, 2.5))
	if len(got) != 2 || got[0] != 1 || got[1] != 2.5 {
		t.Errorf("MonthlySeries = %v", got)
	}
}

func TestRenderMonthlyBars(t *testing.T) {
	if RenderMonthlyBars(nil, 40) != "" {
		t.Error("no buckets should render nothing")
	}

	lines := strings.Split(ansi.Strip(RenderMonthlyBars(buckets(10, 0, 5), 40)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Jan 24") || !strings.HasSuffix(lines[0], "10.0") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("empty month should have no bar: %q", lines[1])
	}
}
