package analytics

import (
	"time"

	"github.com/pkg/errors"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

var ErrUnknownPeriod = errors.New("period must be one of week, month, year")

// ParsePeriod maps a query value to a Period; empty means month.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", ErrUnknownPeriod
}

// Range is a closed time interval.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// PeriodRange returns the window ending at now. Week is the trailing seven
// days; month and year start at local midnight of their first day in loc.
func PeriodRange(p Period, now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	var start time.Time
	switch p {
	case PeriodWeek:
		start = local.Add(-7 * 24 * time.Hour)
	case PeriodYear:
		start = time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	}
	return Range{Start: start, End: local}
}
