package searchconsole

import (
	"time"
)

// DateFormat is the layout Search Console uses for dates.
const DateFormat = "2006-01-02"

// ReportingDelayDays is how far behind today the newest complete data is.
const ReportingDelayDays = 3

// Row limits for search analytics queries.
const (
	DefaultRowLimit = 1000
	MaxRowLimit     = 25000
)

// DateRange is an inclusive pair of YYYY-MM-DD dates with Start <= End.
type DateRange struct {
	Start string
	End   string
}

// NewDateRange returns the window of the given number of days ending
// ReportingDelayDays before now. The dates are taken from now's wall clock.
func NewDateRange(days int, now time.Time) DateRange {
	end := now.AddDate(0, 0, -ReportingDelayDays)
	start := end.AddDate(0, 0, -days)
	return DateRange{
		Start: start.Format(DateFormat),
		End:   end.Format(DateFormat),
	}
}

// String renders the range as "<start> to <end>".
func (r DateRange) String() string {
	return r.Start + " to " + r.End
}

// ValidateDate checks that s is a calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateFormat, s); err != nil {
		return NewValidationError("Dates must be in YYYY-MM-DD format, got %q", s)
	}
	return nil
}

// ValidateDateRange checks both dates and that start is not after end.
func ValidateDateRange(start, end string) error {
	if err := ValidateDate(start); err != nil {
		return err
	}
	if err := ValidateDate(end); err != nil {
		return err
	}
	// Same fixed-width layout, so lexical order is chronological order.
	if start > end {
		return NewValidationError("start_date %s is after end_date %s", start, end)
	}
	return nil
}

// ClampRowLimit caps n at MaxRowLimit. Zero or negative values select
// DefaultRowLimit.
func ClampRowLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultRowLimit
	case n > MaxRowLimit:
		return MaxRowLimit
	}
	return n
}
