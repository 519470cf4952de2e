package models

import "github.com/marmos91/dittonas/pkg/schedule"

// CronSchedule is a five-field cron schedule embedded in scheduled records.
type CronSchedule struct {
	Minute   string `gorm:"size:100;default:'00'" json:"minute"`
	Hour     string `gorm:"size:100;default:'*'" json:"hour"`
	Daymonth string `gorm:"size:100;default:'*'" json:"daymonth"`
	Month    string `gorm:"size:100;default:'*'" json:"month"`
	Dayweek  string `gorm:"size:100;default:'*'" json:"dayweek"`
}

func (c CronSchedule) HumanMinute() string   { return schedule.Minute(c.Minute) }
func (c CronSchedule) HumanHour() string     { return schedule.Hour(c.Hour) }
func (c CronSchedule) HumanDaymonth() string { return schedule.Daymonth(c.Daymonth) }
func (c CronSchedule) HumanMonth() string    { return schedule.Month(c.Month) }
func (c CronSchedule) HumanDayweek() string  { return schedule.Dayweek(c.Dayweek) }

// DailySchedule is a cron schedule without a minute field, used by SMART
// tests which run at the top of the hour.
type DailySchedule struct {
	Hour     string `gorm:"size:100;default:'*'" json:"hour"`
	Daymonth string `gorm:"size:100;default:'*'" json:"daymonth"`
	Month    string `gorm:"size:100;default:'*'" json:"month"`
	Dayweek  string `gorm:"size:100;default:'*'" json:"dayweek"`
}

func (c DailySchedule) HumanHour() string     { return schedule.Hour(c.Hour) }
func (c DailySchedule) HumanDaymonth() string { return schedule.Daymonth(c.Daymonth) }
func (c DailySchedule) HumanMonth() string    { return schedule.Month(c.Month) }
func (c DailySchedule) HumanDayweek() string  { return schedule.Dayweek(c.Dayweek) }
