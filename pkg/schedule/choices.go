package schedule

// Choice is a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

// Label returns the label for value, or value itself when it is not a choice.
func Label(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

var MonthChoices = []Choice{
	{"1", "January"},
	{"2", "February"},
	{"3", "March"},
	{"4", "April"},
	{"5", "May"},
	{"6", "June"},
	{"7", "July"},
	{"8", "August"},
	{"9", "September"},
	{"10", "October"},
	{"11", "November"},
	{"12", "December"},
}

var WeekdayChoices = []Choice{
	{"1", "Monday"},
	{"2", "Tuesday"},
	{"3", "Wednesday"},
	{"4", "Thursday"},
	{"5", "Friday"},
	{"6", "Saturday"},
	{"7", "Sunday"},
}

// IntervalChoices are the snapshot intervals, in minutes.
var IntervalChoices = []Choice{
	{"5", "5 minutes"},
	{"10", "10 minutes"},
	{"15", "15 minutes"},
	{"30", "30 minutes"},
	{"60", "1 hour"},
	{"120", "2 hours"},
	{"180", "3 hours"},
	{"240", "4 hours"},
	{"360", "6 hours"},
	{"720", "12 hours"},
	{"1440", "1 day"},
	{"10080", "1 week"},
	{"20160", "2 weeks"},
	{"40320", "4 weeks"},
}

// RetentionUnits are the valid snapshot retention units.
var RetentionUnits = []string{"hour", "day", "week", "month", "year"}

// SMARTTestTypeChoices are the SMART self-test kinds.
var SMARTTestTypeChoices = []Choice{
	{"L", "Long Self-Test"},
	{"S", "Short Self-Test"},
	{"C", "Conveyance Self-Test (ATA only)"},
	{"O", "Offline Immediate Test (ATA only)"},
}
