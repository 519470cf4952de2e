package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Repeat units of a periodic snapshot task.
const (
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
)

// SnapshotTask is the subset of a periodic snapshot task needed to
// describe it.
type SnapshotTask struct {
	Begin      string // "HH:MM"
	End        string // "HH:MM"
	Interval   int    // minutes, one of IntervalChoices
	RepeatUnit string
	ByWeekday  []int // 1 = Monday ... 7 = Sunday, used when weekly
	RetCount   int
	RetUnit    string
}

// IntervalLabel returns the display label of an interval in minutes.
func IntervalLabel(minutes int) string {
	v := strconv.Itoa(minutes)
	if label := Label(IntervalChoices, v); label != v {
		return label
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// Repeat describes the days a task runs on: "everyday", "on every Monday,
// Friday", or empty for other repeat units.
func (t SnapshotTask) Repeat() string {
	switch t.RepeatUnit {
	case RepeatDaily:
		return "everyday"
	case RepeatWeekly:
		days := make([]string, 0, len(t.ByWeekday))
		for _, d := range t.ByWeekday {
			days = append(days, strconv.Itoa(d))
		}
		return "on every " + labels(days, WeekdayChoices)
	default:
		return ""
	}
}

// How returns the one-line description of when the task runs, e.g.
// "From 09:00 through 18:00, every 1 hour everyday".
func (t SnapshotTask) How() string {
	how := fmt.Sprintf("From %s through %s, every %s %s", t.Begin, t.End, IntervalLabel(t.Interval), t.Repeat())
	return strings.TrimRight(how, " ")
}

// KeepFor returns the retention as "<count> <unit>".
func (t SnapshotTask) KeepFor() string {
	return fmt.Sprintf("%d %s", t.RetCount, t.RetUnit)
}

// ParseWeekdays parses a stored weekday list such as "1,3,5". Surrounding
// brackets are tolerated.
func ParseWeekdays(s string) ([]int, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("weekday %d out of range 1-7", d)
		}
		days = append(days, d)
	}
	return days, nil
}

// FormatWeekdays is the inverse of ParseWeekdays.
func FormatWeekdays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
