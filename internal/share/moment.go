package share

// Moment is a named historical offset a report compares the current price
// against. The set is closed; Moments() fixes the iteration order so report
// columns never depend on map ordering.
type Moment int

const (
	Yesterday Moment = iota
	LastWeek
	LastMonth
	LastYear
)

// Moments returns every moment in report column order.
func Moments() []Moment {
	return []Moment{Yesterday, LastWeek, LastMonth, LastYear}
}

// MinAgeDays is the minimum age of a stored price that qualifies for this
// moment. The freshest record at least this old is used, never an average
// or interpolation.
func (m Moment) MinAgeDays() int {
	switch m {
	case Yesterday:
		return 1
	case LastWeek:
		return 7
	case LastMonth:
		return 30
	case LastYear:
		return 365
	}
	return 0
}

// Label is the human-readable column group name.
func (m Moment) Label() string {
	switch m {
	case Yesterday:
		return "YESTERDAY"
	case LastWeek:
		return "LAST WEEK"
	case LastMonth:
		return "LAST MONTH"
	case LastYear:
		return "LAST YEAR"
	}
	return "UNKNOWN"
}

func (m Moment) String() string { return m.Label() }
