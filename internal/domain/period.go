package domain

import (
	"fmt"
	"time"
)

// Period is an inclusive [Start, End] calendar range requested by the caller.
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return Period{}, fmt.Errorf("period start %s is after end %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return Period{Start: start, End: end}, nil
}

// ContainsDate reports whether a pure calendar date falls inside the period,
// inclusive on both ends.
func (p Period) ContainsDate(d time.Time) bool {
	d = truncateToDay(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// ContainsTimestamp reports whether a date+time value falls inside the
// period. The end boundary is made inclusive by comparing against an
// exclusive "end + 1 day" cutoff, so 23:59 on the last day still matches.
func (p Period) ContainsTimestamp(ts time.Time) bool {
	endNext := p.End.AddDate(0, 0, 1)
	return !ts.Before(p.Start) && ts.Before(endNext)
}

// Label is the folder-name form of the period used in the report layout.
func (p Period) Label() string {
	return p.Start.Format(time.DateOnly) + " - " + p.End.Format(time.DateOnly)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
