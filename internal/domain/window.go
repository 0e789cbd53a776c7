package domain

// TimeWindow is a named period used to scope dashboard aggregation
type TimeWindow string

const (
	TimeWindowWeek  TimeWindow = "week"
	TimeWindowMonth TimeWindow = "month"
	TimeWindowYear  TimeWindow = "year"
	TimeWindowAll   TimeWindow = "all"
)

// TimeWindows lists the supported windows in selector order
var TimeWindows = []TimeWindow{TimeWindowWeek, TimeWindowMonth, TimeWindowYear, TimeWindowAll}

// ParseTimeWindow maps a raw selector to a TimeWindow. Unknown or empty
// values fall back to TimeWindowAll.
func ParseTimeWindow(raw string) TimeWindow {
	switch w := TimeWindow(raw); w {
	case TimeWindowWeek, TimeWindowMonth, TimeWindowYear, TimeWindowAll:
		return w
	default:
		return TimeWindowAll
	}
}

// Label returns the human readable period name
func (w TimeWindow) Label() string {
	switch w {
	case TimeWindowWeek:
		return "This Week"
	case TimeWindowMonth:
		return "This Month"
	case TimeWindowYear:
		return "This Year"
	default:
		return "All Time"
	}
}
