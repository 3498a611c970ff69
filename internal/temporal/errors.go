package temporal

import "fmt"

// ParseError reports a date, timestamp or clock string that does not match
// the expected layout.
type ParseError struct {
	Field  string
	Value  string
	Layout string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid '%s' %q (expected %s)", e.Field, e.Value, e.Layout)
}

// RangeError reports a start bound that comes after its end bound, or an
// empty time-of-day window.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string {
	return e.Msg
}

// OutOfBoundsError reports an hour or minute component outside 0-23 / 0-59.
type OutOfBoundsError struct {
	Field  string
	Hour   int
	Minute int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("invalid '%s' %02d:%02d (hour must be 0-23, minute 0-59)", e.Field, e.Hour, e.Minute)
}
