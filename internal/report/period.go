package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned by ParsePeriod for text outside the period set.
var ErrUnknownPeriod = errors.New("unknown period")

// Period is a symbolic reporting window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod converts request input into a Period. Empty input means today.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, raw)
	}
}

// Start returns the inclusive lower bound of the period relative to now, in
// now's location. Weeks begin on Monday.
func (p Period) Start(now time.Time) time.Time {
	loc := now.Location()
	y, m, d := now.Date()

	switch p {
	case PeriodToday:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case PeriodWeek:
		sinceMonday := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, loc)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case PeriodAll:
		return time.Unix(0, 0).In(loc)
	}
	panic(fmt.Sprintf("report: unhandled period %q", string(p)))
}

// Includes reports whether ts falls inside the period. The boundary itself is
// included.
func (p Period) Includes(ts time.Time, now time.Time) bool {
	return !ts.Before(p.Start(now))
}
