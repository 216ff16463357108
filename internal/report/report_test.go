package report

import (
	"testing"
	"time"

	"cargotrack/internal/model"
)

func strptr(s string) *string { return &s }

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDaysToArrival(t *testing.T) {
	tests := []struct {
		expected *string
		days     int
		ok       bool
	}{
		{strptr("2024-03-16"), 15, true},
		{strptr("2024-03-02"), 1, true},
		{strptr("2024-03-01"), 0, true},  // earlier today: rounds up to 0
		{strptr("2024-02-20"), -10, true},
		{nil, 0, false},
		{strptr("not-a-date"), 0, false},
	}

	for _, tt := range tests {
		days, ok := DaysToArrival(tt.expected, now)
		if ok != tt.ok || days != tt.days {
			t.Errorf("DaysToArrival(%v) = (%d, %v), want (%d, %v)", tt.expected, days, ok, tt.days, tt.ok)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 100},
		{-5, 100},
		{30, 0},
		{45, 0},
		{15, 50},
		{3, 90},
	}

	for _, tt := range tests {
		if got := Progress(tt.days); got != tt.want {
			t.Errorf("Progress(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-3, UrgencyUrgent},
		{10, UrgencyUrgent},
		{11, UrgencyMedium},
		{20, UrgencyMedium},
		{21, UrgencyNormal},
	}

	for _, tt := range tests {
		if got := Urgency(tt.days); got != tt.want {
			t.Errorf("Urgency(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestBuildGroupsByStatus(t *testing.T) {
	containers := []model.Container{
		{ID: 1, Status: model.StatusDeparted, ExpectedArrivalDate: strptr("2024-03-10")},
		{ID: 2, Status: model.StatusInTransit},
		{ID: 3, Status: model.StatusPending},
		{ID: 4, Status: model.StatusArrived},
		{ID: 5, Status: model.StatusDelayed},
	}

	r := Build(containers, now)

	if len(r.Shipped) != 2 {
		t.Errorf("expected 2 shipped entries, got %d", len(r.Shipped))
	}
	if len(r.Production) != 1 {
		t.Errorf("expected 1 production entry, got %d", len(r.Production))
	}
	if r.Stats.Shipped != 2 || r.Stats.Production != 1 || r.Stats.Total != 5 {
		t.Errorf("unexpected stats: %+v", r.Stats)
	}

	dated := r.Shipped[0]
	if dated.DaysToArrival == nil || *dated.DaysToArrival != 9 {
		t.Errorf("expected 9 days to arrival, got %v", dated.DaysToArrival)
	}
	if dated.Urgency != UrgencyUrgent {
		t.Errorf("expected urgent, got %q", dated.Urgency)
	}
	if dated.ProgressPercent != 70 {
		t.Errorf("expected 70%% progress, got %v", dated.ProgressPercent)
	}

	undated := r.Shipped[1]
	if undated.DaysToArrival != nil || undated.Urgency != UrgencyNone || undated.ProgressPercent != 0 {
		t.Errorf("unexpected figures for undated entry: %+v", undated)
	}
}

func TestBuildEmptyList(t *testing.T) {
	r := Build(nil, now)
	if r.Shipped == nil || r.Production == nil {
		t.Error("expected empty groups, not nil")
	}
	if r.Stats.Total != 0 {
		t.Errorf("expected zero total, got %d", r.Stats.Total)
	}
}
