// Package temporal turns calendar-date ranges and time-of-day windows into
// predicates over a single timestamp column.
//
// A Predicate is storage agnostic: it can be matched against a time.Time in
// memory and is rendered to SQL by the repository through a db.Dialect.
package temporal

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// WindowPolicy decides how a multi-day period whose start clock is later
// than its end clock is handled.
type WindowPolicy string

const (
	// WindowReject refuses inverted windows with a RangeError.
	WindowReject WindowPolicy = "reject"
	// WindowWrap treats an inverted window as overnight, e.g. 22:00-06:00
	// matches 23:10 and 05:40 on every day of the range.
	WindowWrap WindowPolicy = "wrap"
)

// ParseWindowPolicy validates a policy name.
func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch p := WindowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case WindowReject, WindowWrap:
		return p, nil
	default:
		return "", fmt.Errorf("invalid window policy %q (allowed: reject, wrap)", s)
	}
}

// Window is an inclusive minute-of-day interval. When Wraps is set the
// interval crosses midnight: [From, 1439] ∪ [0, To].
type Window struct {
	From  int
	To    int
	Wraps bool
}

// Contains reports whether the minute of day falls in the window.
func (w Window) Contains(minute int) bool {
	if w.Wraps {
		return minute >= w.From || minute <= w.To
	}
	return minute >= w.From && minute <= w.To
}

// Predicate selects timestamps in [Start, End] (or [Start, End) when
// EndExclusive is set) whose minute of day falls in Window, if any.
type Predicate struct {
	Start        time.Time
	End          time.Time
	EndExclusive bool
	Window       *Window
}

// Match evaluates the predicate against a timestamp.
func (p Predicate) Match(ts time.Time) bool {
	ts = ts.UTC()
	if ts.Before(p.Start) {
		return false
	}
	if p.EndExclusive {
		if !ts.Before(p.End) {
			return false
		}
	} else if ts.After(p.End) {
		return false
	}
	if p.Window != nil {
		return p.Window.Contains(MinuteOfDay(ts))
	}
	return true
}

// MinuteOfDay returns hour*60+minute of the UTC clock reading of ts.
func MinuteOfDay(ts time.Time) int {
	ts = ts.UTC()
	return ts.Hour()*60 + ts.Minute()
}

// Range selects timestamps in [start, end], both inclusive.
func Range(start, end time.Time) (Predicate, error) {
	if start.After(end) {
		return Predicate{}, &RangeError{Msg: "start_date must be less than or equal to end_date"}
	}
	return Predicate{Start: start.UTC(), End: end.UTC()}, nil
}

// Period selects timestamps whose calendar date is in [startDate, endDate]
// and whose minute of day is in [from, to].
//
// A same-day period requires from < to. A multi-day period with from > to is
// handled according to policy.
func Period(startDate, endDate time.Time, from, to Clock, policy WindowPolicy) (Predicate, error) {
	if startDate.After(endDate) {
		return Predicate{}, &RangeError{Msg: "start_date must be less than or equal to end_date"}
	}
	w := Window{From: from.Minutes(), To: to.Minutes()}
	if startDate.Equal(endDate) {
		if w.From >= w.To {
			return Predicate{}, &RangeError{Msg: "start_hour must be earlier than end_hour on the same day"}
		}
	} else if w.From > w.To {
		if policy != WindowWrap {
			return Predicate{}, &RangeError{Msg: fmt.Sprintf("start_hour %s is after end_hour %s", from, to)}
		}
		w.Wraps = true
	}
	return Predicate{
		Start:        startDate.UTC(),
		End:          endDate.UTC().Add(day),
		EndExclusive: true,
		Window:       &w,
	}, nil
}

// ExactTime selects timestamps whose calendar date is in [startDate, endDate]
// and whose hour and minute equal at. Seconds are ignored.
func ExactTime(startDate, endDate time.Time, at Clock) (Predicate, error) {
	if startDate.After(endDate) {
		return Predicate{}, &RangeError{Msg: "start_date must be less than or equal to end_date"}
	}
	m := at.Minutes()
	return Predicate{
		Start:        startDate.UTC(),
		End:          endDate.UTC().Add(day),
		EndExclusive: true,
		Window:       &Window{From: m, To: m},
	}, nil
}
