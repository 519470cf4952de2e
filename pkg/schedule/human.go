// Package schedule renders cron-style schedule fields and periodic snapshot
// settings as the short English phrases shown in task listings.
package schedule

import (
	"fmt"
	"strings"
)

// Optional formatter interfaces. A schedule type implements the ones that
// make sense for it; a SMART test, for example, has no minute field.
type (
	MinuteFormatter   interface{ HumanMinute() string }
	HourFormatter     interface{ HumanHour() string }
	DaymonthFormatter interface{ HumanDaymonth() string }
	MonthFormatter    interface{ HumanMonth() string }
	DayweekFormatter  interface{ HumanDayweek() string }
)

// Human holds the rendered schedule fields of a record. Fields whose
// formatter the record does not implement stay nil and are omitted.
type Human struct {
	Minute   *string `json:"human_minute,omitempty" yaml:"human_minute,omitempty"`
	Hour     *string `json:"human_hour,omitempty" yaml:"human_hour,omitempty"`
	Daymonth *string `json:"human_daymonth,omitempty" yaml:"human_daymonth,omitempty"`
	Month    *string `json:"human_month,omitempty" yaml:"human_month,omitempty"`
	Dayweek  *string `json:"human_dayweek,omitempty" yaml:"human_dayweek,omitempty"`
}

// HumanFields checks v against each formatter interface, in the fixed
// order minute, hour, daymonth, month, dayweek.
func HumanFields(v any) Human {
	var h Human
	if f, ok := v.(MinuteFormatter); ok {
		h.Minute = ptr(f.HumanMinute())
	}
	if f, ok := v.(HourFormatter); ok {
		h.Hour = ptr(f.HumanHour())
	}
	if f, ok := v.(DaymonthFormatter); ok {
		h.Daymonth = ptr(f.HumanDaymonth())
	}
	if f, ok := v.(MonthFormatter); ok {
		h.Month = ptr(f.HumanMonth())
	}
	if f, ok := v.(DayweekFormatter); ok {
		h.Dayweek = ptr(f.HumanDayweek())
	}
	return h
}

func ptr(s string) *string { return &s }

// Minute renders a cron minute field.
func Minute(field string) string {
	return every(field, "Every minute", "Every %s minute(s)")
}

// Hour renders a cron hour field.
func Hour(field string) string {
	return every(field, "Every hour", "Every %s hour(s)")
}

// Daymonth renders a cron day-of-month field.
func Daymonth(field string) string {
	return every(field, "Everyday", "Every %s days")
}

// Month renders a cron month field: "Every month" for "*" or all twelve
// months, otherwise the comma-separated month names.
func Month(field string) string {
	months := splitList(field)
	if field == "*" || len(months) == 12 {
		return "Every month"
	}
	return labels(months, MonthChoices)
}

// Dayweek renders a cron day-of-week field (1 = Monday ... 7 = Sunday).
func Dayweek(field string) string {
	days := splitList(field)
	if field == "*" || len(days) == 7 {
		return "Everyday"
	}
	switch strings.Join(days, ",") {
	case "1,2,3,4,5":
		return "Weekdays"
	case "6,7":
		return "Weekends"
	}
	return labels(days, WeekdayChoices)
}

func every(field, all, stepFormat string) string {
	field = strings.TrimSpace(field)
	if field == "*" {
		return all
	}
	if step, ok := strings.CutPrefix(field, "*/"); ok {
		return fmt.Sprintf(stepFormat, step)
	}
	return field
}

func splitList(field string) []string {
	var out []string
	for _, part := range strings.Split(field, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// labels maps each value through choices, keeping unknown values verbatim.
func labels(values []string, choices []Choice) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Label(choices, v))
	}
	return strings.Join(out, ", ")
}
