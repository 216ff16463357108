// Package report computes the transit-progress figures behind the printable
// status report: days until expected arrival, percent of the shipping
// schedule elapsed, and the shipped/production grouping.
package report

import (
	"math"
	"time"

	"cargotrack/internal/model"
)

// ScheduleDays is the assumed door-to-door schedule used to turn days-to-go
// into a progress percentage.
const ScheduleDays = 30

// Urgency buckets for a shipment's expected arrival.
const (
	UrgencyUrgent = "urgent" // arriving within 10 days (or overdue)
	UrgencyMedium = "medium" // arriving within 20 days
	UrgencyNormal = "normal"
	UrgencyNone   = "none" // no expected arrival date
)

// Entry is one container annotated with its transit-progress figures.
type Entry struct {
	Container       model.Container `json:"container"`
	DaysToArrival   *int            `json:"days_to_arrival"`
	ProgressPercent float64         `json:"progress_percent"`
	Urgency         string          `json:"urgency"`
}

// Stats is the executive summary of a report.
type Stats struct {
	Shipped    int `json:"shipped"`
	Production int `json:"production"`
	Total      int `json:"total"`
}

// Report groups an owner's containers for the status report: shipped covers
// departed and in-transit shipments, production covers pending ones. Arrived
// and delayed containers count toward the total only, matching the printed
// report's sections.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Shipped     []Entry   `json:"shipped"`
	Production  []Entry   `json:"production"`
	Stats       Stats     `json:"stats"`
}

// Build assembles the report for the given containers as of now.
func Build(containers []model.Container, now time.Time) *Report {
	r := &Report{
		GeneratedAt: now,
		Shipped:     []Entry{},
		Production:  []Entry{},
	}
	r.Stats.Total = len(containers)

	for _, c := range containers {
		switch c.Status {
		case model.StatusDeparted, model.StatusInTransit:
			r.Shipped = append(r.Shipped, newEntry(c, now))
		case model.StatusPending:
			r.Production = append(r.Production, newEntry(c, now))
		}
	}
	r.Stats.Shipped = len(r.Shipped)
	r.Stats.Production = len(r.Production)
	return r
}

func newEntry(c model.Container, now time.Time) Entry {
	e := Entry{Container: c, Urgency: UrgencyNone}
	days, ok := DaysToArrival(c.ExpectedArrivalDate, now)
	if ok {
		e.DaysToArrival = &days
		e.ProgressPercent = Progress(days)
		e.Urgency = Urgency(days)
	}
	return e
}

// DaysToArrival returns the number of whole days (rounded up) until the
// expected arrival date. Negative means overdue. ok is false when the date is
// absent or unparseable.
func DaysToArrival(expected *string, now time.Time) (int, bool) {
	if expected == nil {
		return 0, false
	}
	arrival, err := parseDate(*expected)
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(arrival.Sub(now).Hours() / 24)), true
}

// Progress maps days-to-go onto a 0-100 percentage of the assumed schedule.
// An overdue or arriving-today shipment is at 100%.
func Progress(days int) float64 {
	if days <= 0 {
		return 100
	}
	p := float64(ScheduleDays-days) / ScheduleDays * 100
	return math.Max(0, math.Min(100, p))
}

// Urgency buckets days-to-go: within 10 days (or overdue) is urgent, within
// 20 is medium, anything further out is normal.
func Urgency(days int) string {
	switch {
	case days <= 10:
		return UrgencyUrgent
	case days <= 20:
		return UrgencyMedium
	default:
		return UrgencyNormal
	}
}

// parseDate accepts the stored ISO forms: a bare date or a full timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
